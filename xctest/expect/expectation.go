package expect

import (
	"fmt"

	"github.com/gocorexctest/xctest/internal/xcerrors"
)

// FailureSink lets the xctest package route Expectation's
// programming-violation failures (over-fulfillment past
// AssertForOverFulfill) into the currently active Case's
// ResultRecord, without this package importing xctest — the
// dependency runs the other way (xctest imports expect). xctest wires
// this up once, at package init, to its task-local "current case"
// (spec.md §9).
var FailureSink func(description string, location Location)

// Expectation is a named promise that some event will occur a
// configurable number of times (spec.md §3/§4.D).
type Expectation struct {
	description              string
	creationToken            uint64
	creationLocation         Location
	isFulfilled              bool
	fulfillmentToken         uint64
	fulfillmentLocation      *Location
	expectedFulfillmentCount uint32
	numberOfFulfillments     uint32
	isInverted               bool
	assertForOverFulfill     bool
	hasBeenWaitedOn          bool
	onFulfillHandler         func()
}

// NewExpectation constructs an Expectation with ExpectedFulfillmentCount 1.
func NewExpectation(description string, location Location) *Expectation {
	e := &Expectation{
		description:              description,
		creationLocation:         location,
		expectedFulfillmentCount: 1,
	}
	subsystemMu.Lock()
	e.creationToken = nextCreationToken()
	subsystemMu.Unlock()
	return e
}

// Description returns the expectation's description.
func (e *Expectation) Description() string {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.description
}

// SetDescription updates the description. Rejected once the
// expectation has been waited on.
func (e *Expectation) SetDescription(description string) {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	e.rejectIfWaitedLocked("description")
	e.description = description
}

// CreationToken returns the monotonic token assigned at construction.
func (e *Expectation) CreationToken() uint64 {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.creationToken
}

// CreationLocation returns where the expectation was created.
func (e *Expectation) CreationLocation() Location {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.creationLocation
}

// IsFulfilled reports whether NumberOfFulfillments has reached
// ExpectedFulfillmentCount.
func (e *Expectation) IsFulfilled() bool {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.isFulfilled
}

// FulfillmentToken returns the monotonic token stamped when the
// expectation transitioned to fulfilled, or 0 if not yet fulfilled.
func (e *Expectation) FulfillmentToken() uint64 {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.fulfillmentToken
}

// SetExpectedFulfillmentCount configures how many fulfillments are
// required. Rejected once the expectation has been waited on.
func (e *Expectation) SetExpectedFulfillmentCount(n uint32) {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	e.rejectIfWaitedLocked("expectedFulfillmentCount")
	e.expectedFulfillmentCount = n
}

// SetInverted marks the expectation as inverted: fulfillment is a
// failure, and remaining unfulfilled at timeout is success. Rejected
// once the expectation has been waited on.
func (e *Expectation) SetInverted(inverted bool) {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	e.rejectIfWaitedLocked("isInverted")
	e.isInverted = inverted
}

// IsInverted reports the inverted flag.
func (e *Expectation) IsInverted() bool {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.isInverted
}

// SetAssertForOverFulfill configures whether a Fulfill call past
// IsFulfilled routes a failure through FailureSink. Rejected once the
// expectation has been waited on.
func (e *Expectation) SetAssertForOverFulfill(assert bool) {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	e.rejectIfWaitedLocked("assertForOverFulfill")
	e.assertForOverFulfill = assert
}

// NumberOfFulfillments returns how many times Fulfill has been called.
func (e *Expectation) NumberOfFulfillments() uint32 {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.numberOfFulfillments
}

// HasBeenWaitedOn reports whether a Waiter has ever observed this
// expectation.
func (e *Expectation) HasBeenWaitedOn() bool {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	return e.hasBeenWaitedOn
}

// rejectIfWaitedLocked must be called with subsystemMu held.
func (e *Expectation) rejectIfWaitedLocked(field string) {
	if e.hasBeenWaitedOn {
		xcerrors.Abort(xcerrors.NewProgrammingError(
			xcerrors.CodeConfigAfterWait,
			fmt.Sprintf("cannot set %s on expectation %q after it has been waited on", field, e.description),
		))
	}
}

// markWaitedOnAndInstallHandler is called by Waiter.Wait under
// subsystemMu; it marks the expectation as waited-on and installs the
// handler that will re-enter the waiter on fulfillment. It returns
// whether the expectation was already fulfilled at the time of call.
func (e *Expectation) markWaitedOnAndInstallHandler(handler func()) (alreadyFulfilled bool) {
	e.hasBeenWaitedOn = true
	e.onFulfillHandler = handler
	return e.isFulfilled
}

// detachHandler clears the installed handler; called under
// subsystemMu when a Waiter finishes.
func (e *Expectation) detachHandler() {
	e.onFulfillHandler = nil
}

// Fulfill marks one fulfillment of the expectation (spec.md §4.D).
func (e *Expectation) Fulfill(location Location) {
	subsystemMu.Lock()
	e.numberOfFulfillments++

	if e.isFulfilled {
		overfulfill := e.assertForOverFulfill
		desc := e.description
		subsystemMu.Unlock()
		if overfulfill && FailureSink != nil {
			FailureSink(fmt.Sprintf("API violation - expectation %q overfulfilled", desc), location)
		}
		return
	}

	if e.numberOfFulfillments < e.expectedFulfillmentCount {
		subsystemMu.Unlock()
		return
	}

	e.isFulfilled = true
	e.fulfillmentToken = nextFulfillmentToken()
	loc := location
	e.fulfillmentLocation = &loc
	handler := e.onFulfillHandler
	subsystemMu.Unlock()

	if handler != nil {
		go handler()
	}
}
