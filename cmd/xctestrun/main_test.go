package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocorexctest/xctest"
	"github.com/gocorexctest/xctest/internal/corelog"
)

func TestParseArgs_NoArgsRunsAll(t *testing.T) {
	mode, err := parseArgs(nil, corelog.NewDefault())
	require.NoError(t, err)
	assert.True(t, mode.filter.All)
	assert.Empty(t, mode.listFormat)
	assert.False(t, mode.help)
}

func TestParseArgs_ClassAndMethodSelector(t *testing.T) {
	mode, err := parseArgs([]string{"A/t1"}, corelog.NewDefault())
	require.NoError(t, err)
	assert.False(t, mode.filter.All)
	assert.Equal(t, []xctest.Selector{{ClassName: "A", MethodName: "t1"}}, mode.filter.Selectors)
}

func TestParseArgs_ListJSONFlag(t *testing.T) {
	mode, err := parseArgs([]string{"--list-json"}, corelog.NewDefault())
	require.NoError(t, err)
	assert.Equal(t, "json", mode.listFormat)
}

func TestParseArgs_HelpFlag(t *testing.T) {
	mode, err := parseArgs([]string{"--help"}, corelog.NewDefault())
	require.NoError(t, err)
	assert.True(t, mode.help)
}

func TestParseArgs_UnknownFlagIsAnError(t *testing.T) {
	_, err := parseArgs([]string{"--nope"}, corelog.NewDefault())
	assert.Error(t, err)
}
