package expect

import "fmt"

// Location mirrors xctest.SourceLocation. It is duplicated here,
// rather than imported, so that xctest/expect has no dependency on
// the xctest package — xctest depends on expect, not the reverse.
type Location struct {
	File string
	Line uint32
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}
