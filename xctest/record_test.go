package xctest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRecord_StartStopAndCounters(t *testing.T) {
	r := NewResultRecord()
	_, ok := r.Duration()
	assert.False(t, ok)

	r.Start()
	r.RecordFailure("assert failed", SourceLocation{File: "a_test.go", Line: 10}, true)
	r.RecordFailure("threw error", SourceLocation{File: "a_test.go", Line: 11}, false)
	r.Stop()

	assert.Equal(t, 1, r.ExecutionCount())
	assert.Equal(t, 1, r.FailureCount())
	assert.Equal(t, 1, r.UnexpectedFailureCount())
	assert.Equal(t, 2, r.TotalFailureCount())
	assert.False(t, r.HasSucceeded())
	d, ok := r.Duration()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
}

func TestResultRecord_HasSucceeded(t *testing.T) {
	r := NewResultRecord()
	r.Start()
	r.Stop()
	assert.True(t, r.HasSucceeded())
	assert.Equal(t, 0, r.SkipCount())
}

func TestResultRecord_DoubleStartAborts(t *testing.T) {
	r := NewResultRecord()
	r.Start()
	assert.Panics(t, func() { r.Start() })
}

func TestResultRecord_StopWithoutStartAborts(t *testing.T) {
	r := NewResultRecord()
	assert.Panics(t, func() { r.Stop() })
}

func TestResultRecord_FailureBeforeStartAborts(t *testing.T) {
	r := NewResultRecord()
	assert.Panics(t, func() {
		r.RecordFailure("x", SourceLocation{}, true)
	})
}

func TestResultRecord_RecordSkip(t *testing.T) {
	r := NewResultRecord()
	r.Start()
	r.RecordSkip("needs net", SourceLocation{File: "a_test.go", Line: 3})
	r.Stop()
	assert.Equal(t, 1, r.SkipCount())
	require.Len(t, r.Skips(), 1)
}

func TestCompositeResultRecord_SumsChildren(t *testing.T) {
	composite := NewCompositeResultRecord()
	composite.Start()

	child1 := NewResultRecord()
	child1.Start()
	child1.RecordFailure("f1", SourceLocation{}, true)
	child1.Stop()

	child2 := NewResultRecord()
	child2.Start()
	child2.RecordSkip("skip", SourceLocation{})
	child2.Stop()

	composite.AddChild(child1)
	composite.AddChild(child2)
	composite.Stop()

	assert.Equal(t, 2, composite.ExecutionCount())
	assert.Equal(t, 1, composite.FailureCount())
	assert.Equal(t, 0, composite.UnexpectedFailureCount())
	assert.Equal(t, 1, composite.TotalFailureCount())
	assert.Equal(t, 1, composite.SkipCount())
	assert.False(t, composite.HasSucceeded())
	assert.Len(t, composite.Children(), 2)
}

func TestCompositeResultRecord_HasSucceededRequiresStop(t *testing.T) {
	composite := NewCompositeResultRecord()
	composite.Start()
	child := NewResultRecord()
	child.Start()
	child.Stop()
	composite.AddChild(child)
	assert.False(t, composite.HasSucceeded())
	composite.Stop()
	assert.True(t, composite.HasSucceeded())
}
