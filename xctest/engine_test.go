package xctest

import (
	"errors"
	"testing"
	"time"

	"github.com/gocorexctest/xctest/config"
	"github.com/gocorexctest/xctest/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type spyObserver struct {
	mock.Mock
}

func (s *spyObserver) BundleWillStart(name string)                     { s.Called(name) }
func (s *spyObserver) BundleDidFinish(name string, sum observe.Summary) { s.Called(name, sum) }
func (s *spyObserver) SuiteWillStart(name string)                      { s.Called(name) }
func (s *spyObserver) SuiteDidFinish(name string, sum observe.Summary) { s.Called(name, sum) }
func (s *spyObserver) CaseWillStart(name string)                       { s.Called(name) }
func (s *spyObserver) CaseDidFinish(name string, sum observe.Summary)  { s.Called(name, sum) }
func (s *spyObserver) CaseDidFail(caseName, description string, loc observe.Location) {
	s.Called(caseName, description, loc)
}
func (s *spyObserver) CaseWasSkipped(caseName, description string, loc observe.Location) {
	s.Called(caseName, description, loc)
}

func testConfig() *config.Config {
	return &config.Config{
		RunTimeout:           0,
		DefaultWaiterTimeout: time.Second,
		WaiterSliceInterval:  5 * time.Millisecond,
		OutputFormat:         "human",
	}
}

func TestExecutionEngine_RunSucceedsWithNoFailures(t *testing.T) {
	root := BuildRoot([]Entry{
		{ClassName: "A", Methods: []Method{{Name: "t1", Body: func(c *Case) error { return nil }}}},
	}, AllTests, "Bundle")

	engine := NewExecutionEngine(nil, nil, testConfig())
	record := engine.Run(root)

	assert.True(t, Succeeded(record))
}

func TestExecutionEngine_RunFailsWhenACaseFails(t *testing.T) {
	root := BuildRoot([]Entry{
		{ClassName: "A", Methods: []Method{{Name: "t1", Body: func(c *Case) error { return errors.New("boom") }}}},
	}, AllTests, "Bundle")

	engine := NewExecutionEngine(nil, nil, testConfig())
	record := engine.Run(root)

	assert.False(t, Succeeded(record))
}

func TestExecutionEngine_ObserverSeesBundleAndCaseLifecycle(t *testing.T) {
	root := BuildRoot([]Entry{
		{ClassName: "A", Methods: []Method{{Name: "t1", Body: func(c *Case) error { return nil }}}},
	}, AllTests, "Bundle")

	obs := &spyObserver{}
	obs.On("BundleWillStart", "All tests").Return()
	obs.On("BundleDidFinish", "All tests", mock.Anything).Return()
	obs.On("SuiteWillStart", mock.Anything).Return()
	obs.On("SuiteDidFinish", mock.Anything, mock.Anything).Return()
	obs.On("CaseWillStart", "A.t1").Return()
	obs.On("CaseDidFinish", "A.t1", mock.Anything).Return()

	hub := observe.New()
	hub.Add(obs)

	engine := NewExecutionEngine(hub, nil, testConfig())
	engine.Run(root)

	obs.AssertCalled(t, "CaseWillStart", "A.t1")
	obs.AssertCalled(t, "CaseDidFinish", "A.t1", mock.Anything)
}

func TestExecutionEngine_SelectedRunOnlyExecutesChosenMethod(t *testing.T) {
	var ran []string
	entries := []Entry{
		{ClassName: "A", Methods: []Method{
			{Name: "t1", Body: func(c *Case) error { ran = append(ran, "t1"); return nil }},
			{Name: "t2", Body: func(c *Case) error { ran = append(ran, "t2"); return nil }},
		}},
	}
	root := BuildRoot(entries, NewSelectorFilter([]string{"A/t1"}, nil), "Bundle")

	engine := NewExecutionEngine(nil, nil, testConfig())
	record := engine.Run(root)

	require.Equal(t, []string{"t1"}, ran)
	assert.Equal(t, 1, record.ExecutionCount())
}
