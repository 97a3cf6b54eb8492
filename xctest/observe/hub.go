// Package observe implements the lifecycle observation fan-out
// (spec.md §4.F): a set of Observers notified synchronously, in
// insertion order, as the driver traverses the test tree.
package observe

import (
	"sync"
	"time"
)

// Location mirrors xctest.SourceLocation without creating an import
// cycle between xctest and xctest/observe.
type Location struct {
	File string
	Line uint32
}

// Summary is the counter snapshot handed to *DidFinish callbacks.
type Summary struct {
	ExecutionCount         int
	FailureCount           int
	UnexpectedFailureCount int
	SkipCount              int
	Duration               time.Duration
}

// TotalFailureCount is FailureCount + UnexpectedFailureCount.
func (s Summary) TotalFailureCount() int {
	return s.FailureCount + s.UnexpectedFailureCount
}

// Observer receives lifecycle callbacks during a run. Implementations
// must not block significantly, since callbacks are delivered
// synchronously from the engine's traversal goroutine (spec.md §4.F,
// §5 "Observer callbacks for a single case are strictly ordered").
type Observer interface {
	BundleWillStart(bundleName string)
	BundleDidFinish(bundleName string, summary Summary)
	SuiteWillStart(suiteName string)
	SuiteDidFinish(suiteName string, summary Summary)
	CaseWillStart(caseName string)
	CaseDidFinish(caseName string, summary Summary)
	CaseDidFail(caseName, description string, location Location)
	CaseWasSkipped(caseName, description string, location Location)
}

// ID identifies a registered Observer for later removal.
type ID uint64

// Hub is an insertion-ordered set of Observers. All methods are safe
// for concurrent use, and a dispatch never mutates the observer set
// it is iterating: Add/Remove operate on the live set, but each
// dispatch works off a snapshot copy (spec.md §4.F "must not mutate
// its observer set during a dispatch from within an observer").
type Hub struct {
	mu       sync.Mutex
	next     ID
	order    []ID
	byID     map[ID]Observer
}

func New() *Hub {
	return &Hub{byID: make(map[ID]Observer)}
}

// Add registers an observer and returns an ID that Remove accepts.
func (h *Hub) Add(o Observer) ID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.byID[id] = o
	h.order = append(h.order, id)
	return id
}

// Remove unregisters a previously-added observer.
func (h *Hub) Remove(id ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byID[id]; !ok {
		return
	}
	delete(h.byID, id)
	for i, existing := range h.order {
		if existing == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

func (h *Hub) snapshot() []Observer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Observer, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.byID[id])
	}
	return out
}

// dispatch calls fn for every currently-registered observer,
// tolerating a panicking observer per spec.md §4.F.
func (h *Hub) dispatch(fn func(Observer)) {
	for _, o := range h.snapshot() {
		safeCall(o, fn)
	}
}

func safeCall(o Observer, fn func(Observer)) {
	defer func() { recover() }()
	fn(o)
}

func (h *Hub) BundleWillStart(bundleName string) {
	h.dispatch(func(o Observer) { o.BundleWillStart(bundleName) })
}

func (h *Hub) BundleDidFinish(bundleName string, summary Summary) {
	h.dispatch(func(o Observer) { o.BundleDidFinish(bundleName, summary) })
}

func (h *Hub) SuiteWillStart(suiteName string) {
	h.dispatch(func(o Observer) { o.SuiteWillStart(suiteName) })
}

func (h *Hub) SuiteDidFinish(suiteName string, summary Summary) {
	h.dispatch(func(o Observer) { o.SuiteDidFinish(suiteName, summary) })
}

func (h *Hub) CaseWillStart(caseName string) {
	h.dispatch(func(o Observer) { o.CaseWillStart(caseName) })
}

func (h *Hub) CaseDidFinish(caseName string, summary Summary) {
	h.dispatch(func(o Observer) { o.CaseDidFinish(caseName, summary) })
}

func (h *Hub) CaseDidFail(caseName, description string, location Location) {
	h.dispatch(func(o Observer) { o.CaseDidFail(caseName, description, location) })
}

func (h *Hub) CaseWasSkipped(caseName, description string, location Location) {
	h.dispatch(func(o Observer) { o.CaseWasSkipped(caseName, description, location) })
}
