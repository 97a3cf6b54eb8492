package expect

import (
	"sort"
	"sync"
	"time"

	"github.com/gocorexctest/xctest/internal/xcerrors"
)

// ResultKind enumerates the terminal outcomes of a Waiter.Wait call
// (spec.md §4.E).
type ResultKind string

const (
	Completed           ResultKind = "completed"
	TimedOut            ResultKind = "timedOut"
	IncorrectOrder      ResultKind = "incorrectOrder"
	InvertedFulfillment ResultKind = "invertedFulfillment"
	Interrupted         ResultKind = "interrupted"
)

// Result is the outcome of a Wait call.
type Result struct {
	Kind ResultKind

	// Unfulfilled holds the still-unfulfilled, non-inverted
	// expectations when Kind is TimedOut.
	Unfulfilled []*Expectation

	// ActualOrder/RequiredOrder are populated when Kind is
	// IncorrectOrder: the order fulfillments actually happened in,
	// versus the order the wait call required.
	ActualOrder   []*Expectation
	RequiredOrder []*Expectation

	// InvertedExpectation is populated when Kind is InvertedFulfillment.
	InvertedExpectation *Expectation

	// InterruptedBy is populated when Kind is Interrupted: the outer
	// Waiter whose own timeout forced this one to finish early.
	InterruptedBy *Waiter
}

// Delegate receives notifications about a Waiter's outcome, on a
// queue distinct from the subsystem queue (spec.md §4.E/§5). The
// default delegate in a full xctest run is the Case that called Wait.
type Delegate interface {
	DidTimeoutWithUnfulfilled(unfulfilled []*Expectation)
	FulfillmentDidViolateOrderingConstraints(actual, required []*Expectation)
	DidFulfillInvertedExpectation(e *Expectation)
	NestedWaiterWasInterrupted(outer *Waiter)
}

type waiterState int

const (
	stateReady waiterState = iota
	stateWaiting
	stateFinished
)

// defaultSliceInterval is the suspension slice cap from spec.md §4.E
// step 3 ("cap slice ≤ 100 ms").
const defaultSliceInterval = 100 * time.Millisecond

// Waiter blocks the calling goroutine until a set of Expectations is
// satisfied, times out, is order-violated, is inverted-fulfilled, or
// is interrupted by an outer Waiter's timeout (spec.md §4.E).
type Waiter struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state waiterState
	result *Result

	enforceOrder bool
	expectations []*Expectation

	timeout      time.Duration
	waitLocation Location
	delegate     Delegate
	manager      *Manager

	sliceInterval time.Duration

	// delegateWG tracks delegate calls scheduled on delegateQueue for
	// this Waiter that haven't run yet. Wait blocks on it before
	// returning its Result, so a caller never observes the Waiter's
	// outcome before the delegate has recorded its consequences
	// (spec.md §5 observer-ordering guarantee).
	delegateWG sync.WaitGroup
}

// NewWaiter constructs a Waiter reporting to delegate, created at location.
func NewWaiter(delegate Delegate, location Location) *Waiter {
	w := &Waiter{
		delegate:      delegate,
		waitLocation:  location,
		sliceInterval: defaultSliceInterval,
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// SetSliceInterval overrides the default 100ms suspension slice cap
// (used by xctest/config to thread the configured interval through).
func (w *Waiter) SetSliceInterval(d time.Duration) {
	if d > 0 {
		w.sliceInterval = d
	}
}

// Wait blocks until expectations are satisfied, timeout elapses, an
// ordering violation or inverted fulfillment is detected, or an outer
// Waiter interrupts this one. Duplicate expectations in the input are
// a programming error.
func (w *Waiter) Wait(manager *Manager, expectations []*Expectation, timeout time.Duration, enforceOrder bool) Result {
	assertNoDuplicates(expectations)

	subsystemMu.Lock()
	w.enforceOrder = enforceOrder
	w.expectations = append([]*Expectation(nil), expectations...)
	w.timeout = timeout
	w.manager = manager

	var alreadyFulfilled bool
	for _, e := range expectations {
		handler := func(exp *Expectation) func() {
			return func() { w.onExpectationFulfilled(exp) }
		}(e)
		if e.markWaitedOnAndInstallHandler(handler) {
			alreadyFulfilled = true
		}
	}
	w.mu.Lock()
	w.state = stateWaiting
	w.mu.Unlock()

	if alreadyFulfilled {
		w.validateLocked(false)
	}
	subsystemMu.Unlock()

	if manager != nil {
		manager.Push(w)
	}

	w.runSuspensionLoop()

	if manager != nil {
		manager.Pop(w)
	}

	subsystemMu.Lock()
	for _, e := range w.expectations {
		e.detachHandler()
	}
	subsystemMu.Unlock()

	// Block until any delegate call this Waiter scheduled has actually
	// run, so the caller never proceeds past Wait() while a
	// timeout/order-violation/inversion/interruption failure is still
	// in flight or unrecorded.
	w.delegateWG.Wait()

	w.mu.Lock()
	result := *w.result
	w.mu.Unlock()
	return result
}

func assertNoDuplicates(expectations []*Expectation) {
	seen := make(map[*Expectation]struct{}, len(expectations))
	for _, e := range expectations {
		if _, ok := seen[e]; ok {
			xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeDuplicateWait, "duplicate expectation passed to Wait"))
		}
		seen[e] = struct{}{}
	}
}

// runSuspensionLoop is the cooperative suspension primitive of
// spec.md §4.E step 3 / §5 "Suspension points": it blocks the calling
// goroutine in bounded slices on a condition variable keyed to the
// Finished transition, waking either because a fulfillment handler
// broadcast or because a slice timer elapsed and remaining time must
// be rechecked.
func (w *Waiter) runSuspensionLoop() {
	deadline := time.Now().Add(w.timeout)

	w.mu.Lock()
	for w.state != stateFinished {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			w.mu.Unlock()
			w.timeoutNow()
			w.mu.Lock()
			continue
		}
		slice := remaining
		if slice > w.sliceInterval {
			slice = w.sliceInterval
		}
		timer := time.AfterFunc(slice, func() {
			w.mu.Lock()
			w.cond.Broadcast()
			w.mu.Unlock()
		})
		w.cond.Wait()
		timer.Stop()
	}
	w.mu.Unlock()
}

// timeoutNow handles the wall-clock deadline passing: it first
// interrupts any inner Waiters still active on this goroutine's
// manager stack (nested interruption, spec.md §4.E/§5), then performs
// the final timeout validation.
func (w *Waiter) timeoutNow() {
	if w.manager != nil {
		w.manager.interruptInner(w)
	}
	subsystemMu.Lock()
	w.validateLocked(true)
	subsystemMu.Unlock()
}

// onExpectationFulfilled re-enters the waiter after a fulfillment;
// called from its own goroutine per spec.md §4.D ("schedule ... to
// run after releasing the queue lock").
func (w *Waiter) onExpectationFulfilled(e *Expectation) {
	subsystemMu.Lock()
	defer subsystemMu.Unlock()
	w.validateLocked(false)
}

// validateLocked implements the validation algorithm of spec.md
// §4.E. Must be called with subsystemMu held.
func (w *Waiter) validateLocked(isTimeout bool) {
	w.mu.Lock()
	alreadyFinished := w.state == stateFinished
	w.mu.Unlock()
	if alreadyFinished {
		return
	}

	var fulfilled []*Expectation
	for _, e := range w.expectations {
		if e.isFulfilled {
			fulfilled = append(fulfilled, e)
		}
	}

	for _, e := range fulfilled {
		if e.isInverted {
			e := e
			if w.finish(Result{Kind: InvertedFulfillment, InvertedExpectation: e}) {
				w.scheduleDelegate(func() { w.delegate.DidFulfillInvertedExpectation(e) })
			}
			return
		}
	}

	if w.enforceOrder {
		sorted := append([]*Expectation(nil), fulfilled...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].fulfillmentToken < sorted[j].fulfillmentToken })

		var required []*Expectation
		for _, e := range w.expectations {
			if !e.isInverted {
				required = append(required, e)
			}
		}

		for i, got := range sorted {
			if i >= len(required) || got != required[i] {
				actual := sorted
				req := required
				if w.finish(Result{Kind: IncorrectOrder, ActualOrder: actual, RequiredOrder: req}) {
					w.scheduleDelegate(func() { w.delegate.FulfillmentDidViolateOrderingConstraints(actual, req) })
				}
				return
			}
		}
	}

	allNonInvertedFulfilled := true
	var unfulfilled []*Expectation
	for _, e := range w.expectations {
		if e.isInverted {
			continue
		}
		if !e.isFulfilled {
			allNonInvertedFulfilled = false
			unfulfilled = append(unfulfilled, e)
		}
	}

	if allNonInvertedFulfilled {
		w.finish(Result{Kind: Completed})
		return
	}

	if isTimeout {
		if len(unfulfilled) == 0 {
			w.finish(Result{Kind: Completed})
			return
		}
		u := unfulfilled
		if w.finish(Result{Kind: TimedOut, Unfulfilled: u}) {
			w.scheduleDelegate(func() { w.delegate.DidTimeoutWithUnfulfilled(u) })
		}
		return
	}
	// incomplete: no transition.
}

// finish transitions the Waiter to Finished with result, unless it
// already finished. Returns whether this call performed the
// transition (so callers know whether to notify the delegate).
func (w *Waiter) finish(result Result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == stateFinished {
		return false
	}
	w.state = stateFinished
	w.result = &result
	w.cond.Broadcast()
	return true
}

// scheduleDelegate hands fn to the shared delegate queue, tracking it
// against delegateWG so Wait can block until fn has actually executed
// rather than merely been received by the delegate goroutine.
func (w *Waiter) scheduleDelegate(fn func()) {
	if w.delegate == nil {
		return
	}
	w.delegateWG.Add(1)
	scheduleDelegate(func() {
		defer w.delegateWG.Done()
		fn()
	})
}

// interrupt is called by a Manager when an outer Waiter's timeout
// requires this (inner) Waiter to finish early.
func (w *Waiter) interrupt(outer *Waiter) {
	finished := w.finish(Result{Kind: Interrupted, InterruptedBy: outer})
	if finished {
		w.scheduleDelegate(func() { w.delegate.NestedWaiterWasInterrupted(outer) })
	}
}
