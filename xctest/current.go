package xctest

import (
	"sync"

	"github.com/gocorexctest/xctest/expect"
)

// currentCaseSlot is the task-local (one-slot) "current case" binding
// of spec.md §3/§9: set at a Case's body entry, cleared at exit, so
// assertion and expectation helpers can reach the active Case without
// argument-threading. A real per-goroutine scope would need a
// goroutine-local mechanism Go does not provide; a single mutex-guarded
// slot is sufficient because the engine is single-threaded and
// sequential (spec.md §5: "exactly one Case body is running").
var currentCaseSlot struct {
	mu sync.Mutex
	c  *Case
}

func setCurrentCase(c *Case) {
	currentCaseSlot.mu.Lock()
	currentCaseSlot.c = c
	currentCaseSlot.mu.Unlock()
}

func clearCurrentCase() {
	currentCaseSlot.mu.Lock()
	currentCaseSlot.c = nil
	currentCaseSlot.mu.Unlock()
}

// CurrentCase returns the Case whose body is presently executing, or
// nil if none is active.
func CurrentCase() *Case {
	currentCaseSlot.mu.Lock()
	defer currentCaseSlot.mu.Unlock()
	return currentCaseSlot.c
}

func init() {
	expect.FailureSink = func(description string, location expect.Location) {
		if c := CurrentCase(); c != nil {
			c.RecordFailure(description, SourceLocation{File: location.File, Line: location.Line}, false)
		}
	}
}
