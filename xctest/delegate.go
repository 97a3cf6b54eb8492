package xctest

import (
	"fmt"

	"github.com/gocorexctest/xctest/expect"
)

// The Waiter delegate callbacks below run on the expect package's
// delegate queue (spec.md §4.E/§5), never on the subsystem queue, and
// turn a Wait outcome the test itself didn't assert on into a recorded
// failure — this is what makes the Case "the default delegate" the
// spec describes.

// DidTimeoutWithUnfulfilled implements expect.Delegate.
func (c *Case) DidTimeoutWithUnfulfilled(unfulfilled []*expect.Expectation) {
	c.RecordFailure(fmt.Sprintf("Asynchronous wait failed: exceeded timeout, with unfulfilled expectations: %v", describeExpectations(unfulfilled)), c.location, true)
}

// FulfillmentDidViolateOrderingConstraints implements expect.Delegate.
func (c *Case) FulfillmentDidViolateOrderingConstraints(actual, required []*expect.Expectation) {
	c.RecordFailure(
		fmt.Sprintf("Fulfillment order %s did not match required order %s", describeExpectations(actual), describeExpectations(required)),
		c.location, true,
	)
}

// DidFulfillInvertedExpectation implements expect.Delegate.
func (c *Case) DidFulfillInvertedExpectation(e *expect.Expectation) {
	loc := e.CreationLocation()
	c.RecordFailure(fmt.Sprintf("Inverted expectation fulfilled: %q", e.Description()), SourceLocation{File: loc.File, Line: loc.Line}, true)
}

// NestedWaiterWasInterrupted implements expect.Delegate. A wait
// interrupted by an outer timeout is reported against the outer
// Waiter's own unfulfilled expectations, not a separate failure on
// this Case, so it is silent here — the outer wait's own timeout
// delegate call already recorded the failure that matters.
func (c *Case) NestedWaiterWasInterrupted(outer *expect.Waiter) {}

var _ expect.Delegate = (*Case)(nil)

func describeExpectations(list []*expect.Expectation) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Description()
	}
	return out
}
