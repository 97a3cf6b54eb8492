// Package expect implements the asynchronous expectation/waiter
// subsystem (spec.md §4.D/§4.E/§5): Expectation fulfillment tokens,
// the Waiter state machine with ordering enforcement, inversion,
// per-waiter timeout and nested-waiter interruption, and the
// WaiterManager stack that makes nested interruption possible.
package expect

import (
	"sync"
	"sync/atomic"
)

// subsystemMu is the single process-wide serial queue guarding every
// mutable field of Expectation and Waiter (spec.md §5: "All mutable
// fields ... are protected by a single process-wide serial queue").
// A plain mutex is a faithful stand-in for a serial dispatch queue
// here: nothing in this package needs the async-enqueue behavior a
// real dispatch queue offers beyond mutual exclusion, since every
// caller that touches subsystem state blocks for the duration of its
// critical section anyway.
var subsystemMu sync.Mutex

var creationTokenCounter atomic.Uint64
var fulfillmentTokenCounter atomic.Uint64

func nextCreationToken() uint64 {
	return creationTokenCounter.Add(1)
}

func nextFulfillmentToken() uint64 {
	return fulfillmentTokenCounter.Add(1)
}

// delegateQueue is the separate serial queue that delegate callbacks
// run on, so they never execute while subsystemMu is held and can
// never reenter it (spec.md §5 "Delegate callbacks run on a separate
// serial queue to avoid reentrancy into the subsystem queue").
var delegateQueue = make(chan func())

func init() {
	go func() {
		for fn := range delegateQueue {
			runDelegateCall(fn)
		}
	}()
}

func runDelegateCall(fn func()) {
	defer func() { recover() }()
	fn()
}

func scheduleDelegate(fn func()) {
	delegateQueue <- fn
}
