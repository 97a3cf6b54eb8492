package xctest

import (
	"strings"
	"sync"

	"github.com/gocorexctest/xctest/internal/corelog"
)

// registry is the process-wide list of registered test classes, built
// up by Register calls from each test class's init() function — the
// Go analogue of XCTest's Objective-C runtime class discovery (spec.md
// §9 "Closures capturing methods").
var registry struct {
	mu      sync.Mutex
	entries []Entry
}

// Register appends entry to the process-wide registry. Test packages
// call this from an init() function alongside their Method bodies.
func Register(entry Entry) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entries = append(registry.entries, entry)
}

// Registered returns a copy of the process-wide registry in
// registration order.
func Registered() []Entry {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	out := make([]Entry, len(registry.entries))
	copy(out, registry.entries)
	return out
}

// Entry is one registered test class: its name, its optional
// class-level setUp/tearDown (run exactly once per run, regardless of
// how many methods are selected), and its ordered list of methods
// (spec.md §4.G).
type Entry struct {
	ClassName     string
	ClassSetUp    func() error
	ClassTearDown func() error
	Methods       []Method
	// Locations mirrors Methods by index; omitted entries default to
	// the zero SourceLocation.
	Locations []SourceLocation
}

// Selector is a parsed filter element: either "ClassName" or
// "ClassName/methodName" (spec.md §6 "Selector grammar").
type Selector struct {
	ClassName  string
	MethodName string // empty means "the whole class"
}

// Filter is either "all" (All set to true, as in AllTests) or an
// explicit, ordered set of Selectors. The zero value selects nothing.
type Filter struct {
	All       bool
	Selectors []Selector
}

// AllTests is the filter that selects every registered test.
var AllTests = Filter{All: true}

// ParseSelector parses one selector token per the grammar
// `Identifier ('/' Identifier)?`. Two or more '/' segments are
// malformed and discarded (ok is false).
func ParseSelector(token string) (Selector, bool) {
	parts := strings.Split(token, "/")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Selector{}, false
		}
		return Selector{ClassName: parts[0]}, true
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Selector{}, false
		}
		return Selector{ClassName: parts[0], MethodName: parts[1]}, true
	default:
		return Selector{}, false
	}
}

// NewSelectorFilter builds a Filter from raw selector tokens,
// discarding malformed ones. A malformed token (spec.md §6 grammar:
// more than one '/'-segment, or an empty ClassName/methodName) is
// logged at Warn and dropped rather than surfaced as an error, since
// one bad token on the command line shouldn't stop the rest of the
// selection from being honored. logger may be nil, in which case it
// falls back to corelog.NewDefault().
func NewSelectorFilter(tokens []string, logger corelog.Logger) Filter {
	if logger == nil {
		logger = corelog.NewDefault()
	}
	var f Filter
	for _, t := range tokens {
		sel, ok := ParseSelector(t)
		if !ok {
			logger.Warn("discarding malformed selector", corelog.String("token", t))
			continue
		}
		f.Selectors = append(f.Selectors, sel)
	}
	return f
}

// includes reports whether (className, methodName) survives the
// filter: the selector set contains either {Class} or {Class, method}
// (spec.md §4.G "Filtering rule").
func (f Filter) includes(className, methodName string) bool {
	if f.All {
		return true
	}
	for _, s := range f.Selectors {
		if s.ClassName != className {
			continue
		}
		if s.MethodName == "" || s.MethodName == methodName {
			return true
		}
	}
	return false
}

// BuildRoot turns registration entries plus a filter into a root Suite
// (spec.md §4.G "Root assembly"). bundleName names the synthetic
// "<bundle>.xctest" suite used when no selector narrows the run.
func BuildRoot(entries []Entry, filter Filter, bundleName string) *Suite {
	var classSuites []TestEntity

	for _, entry := range entries {
		var kept []TestEntity
		for i, m := range entry.Methods {
			if !filter.includes(entry.ClassName, m.Name) {
				continue
			}
			loc := SourceLocation{}
			if i < len(entry.Locations) {
				loc = entry.Locations[i]
			}
			kept = append(kept, NewCase(entry.ClassName, m, loc))
		}
		if len(kept) == 0 {
			continue
		}
		classSuites = append(classSuites, NewClassSuite(entry.ClassName, kept, entry.ClassSetUp, entry.ClassTearDown))
	}

	if filter.All {
		bundleSuite := NewSuite(bundleName+".xctest", classSuites...)
		return NewSuite("All tests", bundleSuite)
	}
	return NewSuite("Selected tests", classSuites...)
}
