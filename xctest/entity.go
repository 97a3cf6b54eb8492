package xctest

import (
	"time"

	"github.com/gocorexctest/xctest/expect"
	"github.com/gocorexctest/xctest/observe"
)

// TestEntity is the polymorphic tree node of spec.md §3/§4.B: a leaf
// Case (one test invocation) or a composite Suite (ordered children),
// unified over a single capability set rather than a class hierarchy
// (spec.md §9 "Composite over inheritance").
type TestEntity interface {
	Name() string
	CaseCount() int
	Execute(ctx *runContext) Record
}

// runContext threads the ambient collaborators an entity needs while
// executing — the observer fan-out, the waiter manager for the run,
// and the configuration — down through the tree without a global.
type runContext struct {
	hub     *observe.Hub
	manager *expect.Manager
	cfg     runConfig
}

// runConfig is the subset of xctest/config.Config the engine threads
// into Waiters; kept narrow so this file doesn't import the config
// package (engine.go does that translation).
type runConfig struct {
	defaultWaiterTimeout time.Duration
	sliceInterval        time.Duration
}

func summaryFromRecord(r Record) observe.Summary {
	d, _ := r.Duration()
	return observe.Summary{
		ExecutionCount:         r.ExecutionCount(),
		FailureCount:           r.FailureCount(),
		UnexpectedFailureCount: r.UnexpectedFailureCount(),
		SkipCount:              r.SkipCount(),
		Duration:               d,
	}
}

func toObserveLocation(l SourceLocation) observe.Location {
	return observe.Location{File: l.File, Line: l.Line}
}

var (
	_ TestEntity = (*Case)(nil)
	_ TestEntity = (*Suite)(nil)
)
