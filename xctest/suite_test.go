package xctest

import (
	"errors"
	"testing"
	"time"

	"github.com/gocorexctest/xctest/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecCtx() *runContext {
	return &runContext{hub: observe.New(), cfg: runConfig{defaultWaiterTimeout: time.Second, sliceInterval: 5 * time.Millisecond}}
}

func TestSuite_RunsChildrenInRegistrationOrderAndSumsCounters(t *testing.T) {
	var order []string
	mk := func(name string) *Case {
		return NewCase("C", Method{Name: name, Body: func(c *Case) error {
			order = append(order, name)
			return nil
		}}, SourceLocation{})
	}
	s := NewSuite("C", mk("t1"), mk("t2"), mk("t3"))

	record := s.Execute(newExecCtx())

	assert.Equal(t, []string{"t1", "t2", "t3"}, order)
	assert.Equal(t, 3, record.ExecutionCount())
}

func TestSuite_ClassSetUpAndTearDownRunExactlyOnce(t *testing.T) {
	setUps, tearDowns := 0, 0
	cases := []TestEntity{
		NewCase("C", Method{Name: "t1", Body: func(c *Case) error { return nil }}, SourceLocation{}),
		NewCase("C", Method{Name: "t2", Body: func(c *Case) error { return nil }}, SourceLocation{}),
	}
	s := NewClassSuite("C",
		cases,
		func() error { setUps++; return nil },
		func() error { tearDowns++; return nil },
	)

	s.Execute(newExecCtx())

	assert.Equal(t, 1, setUps)
	assert.Equal(t, 1, tearDowns)
}

func TestSuite_ClassSetUpFailureAborts(t *testing.T) {
	s := NewClassSuite("C", nil, func() error { return errors.New("boom") }, nil)

	assert.Panics(t, func() {
		s.Execute(newExecCtx())
	})
}

func TestSuite_CompositeRecordSumsFailures(t *testing.T) {
	failing := NewCase("C", Method{Name: "fail", Body: func(c *Case) error { return errors.New("x") }}, SourceLocation{})
	passing := NewCase("C", Method{Name: "pass", Body: func(c *Case) error { return nil }}, SourceLocation{})
	s := NewSuite("C", failing, passing)

	record := s.Execute(newExecCtx())

	require.Equal(t, 2, record.ExecutionCount())
	assert.Equal(t, 1, record.UnexpectedFailureCount())
	assert.False(t, record.HasSucceeded())
}

func TestSuite_CaseCountSumsChildren(t *testing.T) {
	s := NewSuite("root",
		NewSuite("A", NewCase("A", Method{Name: "a1"}, SourceLocation{}), NewCase("A", Method{Name: "a2"}, SourceLocation{})),
		NewSuite("B", NewCase("B", Method{Name: "b1"}, SourceLocation{})),
	)
	assert.Equal(t, 3, s.CaseCount())
}
