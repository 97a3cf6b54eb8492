// Package xctest implements the hierarchical unit-testing runtime:
// the test tree (Case/Suite), the ResultRecord accumulator, the
// execution engine that drives setUp/body/tearDown, and the
// registration+filter pass that turns a flat list of test methods
// into a Suite tree. The asynchronous expectation/waiter subsystem
// lives in the sibling xctest/expect package, and assertion routing
// in xctest/assert.
package xctest

import "fmt"

// SourceLocation identifies a single file/line pair. It is immutable
// once constructed.
type SourceLocation struct {
	File string
	Line uint32
}

// String renders the location as "file:line", matching the failure
// and skip line formats of spec.md §6.
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}
