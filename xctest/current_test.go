package xctest

import (
	"testing"

	"github.com/gocorexctest/xctest/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentCase_NoneActiveByDefault(t *testing.T) {
	assert.Nil(t, CurrentCase())
}

func TestCurrentCase_SetDuringCaseExecution(t *testing.T) {
	var seenDuringBody *Case
	c := NewCase("Suite", Method{
		Name: "testSeesItself",
		Body: func(c *Case) error {
			seenDuringBody = CurrentCase()
			return nil
		},
	}, SourceLocation{})

	execOne(c)

	assert.Same(t, c, seenDuringBody)
	assert.Nil(t, CurrentCase())
}

func TestFailureSinkWiring_RoutesOverFulfillToCurrentCase(t *testing.T) {
	var capturedDesc string
	c := NewCase("Suite", Method{
		Name: "testOverFulfill",
		Body: func(c *Case) error {
			e := c.NewExpectation("once", SourceLocation{})
			e.SetAssertForOverFulfill(true)
			e.Fulfill(expect.Location{})
			e.Fulfill(expect.Location{})
			c.Wait([]*expect.Expectation{e}, 0, false)
			return nil
		},
	}, SourceLocation{})

	record := execOne(c)
	require.NotEmpty(t, record.Failures())
	capturedDesc = record.Failures()[0].Description
	assert.Contains(t, capturedDesc, "overfulfilled")
}
