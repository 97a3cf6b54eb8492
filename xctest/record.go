package xctest

import (
	"sync"
	"time"

	"github.com/gocorexctest/xctest/internal/xcerrors"
)

// Failure describes a single recorded failure.
type Failure struct {
	Description string
	Location    SourceLocation
	Expected    bool
}

// SkipInfo describes a single recorded skip.
type SkipInfo struct {
	Description string
	Location    SourceLocation
}

// Record is the read side shared by ResultRecord (a leaf's
// accumulator) and CompositeResultRecord (a Suite's summed view over
// its children), per spec.md §3/§4.A.
type Record interface {
	StartTime() (time.Time, bool)
	StopTime() (time.Time, bool)
	Duration() (time.Duration, bool)
	ExecutionCount() int
	FailureCount() int
	UnexpectedFailureCount() int
	TotalFailureCount() int
	SkipCount() int
	HasSucceeded() bool
	Failures() []Failure
	Skips() []SkipInfo
}

// ResultRecord is a leaf entity's execution accumulator: one per Case
// per run. All mutating operations are safe to call from a goroutine
// other than the Case's own, since the expectation subsystem's
// delegate queue may need to record a timeout/order failure on it.
type ResultRecord struct {
	mu sync.Mutex

	startTime *time.Time
	stopTime  *time.Time

	executionCount         int
	failureCount           int
	unexpectedFailureCount int
	skipCount              int

	failures []Failure
	skips    []SkipInfo
}

// NewResultRecord constructs an empty, unstarted ResultRecord.
func NewResultRecord() *ResultRecord {
	return &ResultRecord{}
}

// Start records the moment execution began. Starting an
// already-started record is a programming error (spec.md §4.A).
func (r *ResultRecord) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startTime != nil {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordDoubleStart, "ResultRecord started twice"))
	}
	now := time.Now()
	r.startTime = &now
}

// Stop records the moment execution ended and increments
// ExecutionCount. Stopping before Start is a programming error.
func (r *ResultRecord) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startTime == nil {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordStopNoStart, "ResultRecord stopped before it was started"))
	}
	if r.stopTime != nil {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordDoubleStart, "ResultRecord stopped twice"))
	}
	now := time.Now()
	r.stopTime = &now
	r.executionCount++
}

// RecordFailure increments FailureCount (expected) or
// UnexpectedFailureCount, and appends a Failure entry. Must be called
// between Start and Stop.
func (r *ResultRecord) RecordFailure(description string, location SourceLocation, expected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startTime == nil {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordBeforeStart, "failure recorded before ResultRecord was started"))
	}
	if expected {
		r.failureCount++
	} else {
		r.unexpectedFailureCount++
	}
	r.failures = append(r.failures, Failure{Description: description, Location: location, Expected: expected})
}

// RecordSkip marks the record as skipped. Calling it more than once
// is a programming error.
func (r *ResultRecord) RecordSkip(description string, location SourceLocation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipCount != 0 {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordDoubleStart, "ResultRecord skipped twice"))
	}
	r.skipCount = 1
	r.skips = append(r.skips, SkipInfo{Description: description, Location: location})
}

func (r *ResultRecord) StartTime() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startTime == nil {
		return time.Time{}, false
	}
	return *r.startTime, true
}

func (r *ResultRecord) StopTime() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopTime == nil {
		return time.Time{}, false
	}
	return *r.stopTime, true
}

// Duration returns the elapsed time between Start and Stop; the
// second return is false unless both timestamps are set.
func (r *ResultRecord) Duration() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startTime == nil || r.stopTime == nil {
		return 0, false
	}
	return r.stopTime.Sub(*r.startTime), true
}

func (r *ResultRecord) ExecutionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executionCount
}

func (r *ResultRecord) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failureCount
}

func (r *ResultRecord) UnexpectedFailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unexpectedFailureCount
}

// TotalFailureCount is FailureCount + UnexpectedFailureCount.
func (r *ResultRecord) TotalFailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failureCount + r.unexpectedFailureCount
}

func (r *ResultRecord) SkipCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipCount
}

// HasSucceeded reports whether the record stopped with zero total
// failures.
func (r *ResultRecord) HasSucceeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopTime != nil && r.failureCount+r.unexpectedFailureCount == 0
}

func (r *ResultRecord) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

func (r *ResultRecord) Skips() []SkipInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SkipInfo, len(r.skips))
	copy(out, r.skips)
	return out
}

// CompositeResultRecord is a Suite's accumulator: its own Start/Stop
// bookkeeping plus every counter computed by summation over an
// ordered list of child Records, per spec.md §4.A.
type CompositeResultRecord struct {
	mu sync.Mutex

	startTime *time.Time
	stopTime  *time.Time

	children []Record
}

// NewCompositeResultRecord constructs an empty, unstarted composite record.
func NewCompositeResultRecord() *CompositeResultRecord {
	return &CompositeResultRecord{}
}

func (c *CompositeResultRecord) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime != nil {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordDoubleStart, "CompositeResultRecord started twice"))
	}
	now := time.Now()
	c.startTime = &now
}

func (c *CompositeResultRecord) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime == nil {
		xcerrors.Abort(xcerrors.NewProgrammingError(xcerrors.CodeRecordStopNoStart, "CompositeResultRecord stopped before it was started"))
	}
	now := time.Now()
	c.stopTime = &now
}

// AddChild appends a child's Record; order is preserved for traversal.
func (c *CompositeResultRecord) AddChild(child Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, child)
}

// Children returns the ordered list of child records.
func (c *CompositeResultRecord) Children() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.children))
	copy(out, c.children)
	return out
}

func (c *CompositeResultRecord) StartTime() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime == nil {
		return time.Time{}, false
	}
	return *c.startTime, true
}

func (c *CompositeResultRecord) StopTime() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopTime == nil {
		return time.Time{}, false
	}
	return *c.stopTime, true
}

func (c *CompositeResultRecord) Duration() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime == nil || c.stopTime == nil {
		return 0, false
	}
	return c.stopTime.Sub(*c.startTime), true
}

func (c *CompositeResultRecord) ExecutionCount() int { return c.sum(Record.ExecutionCount) }

func (c *CompositeResultRecord) FailureCount() int { return c.sum(Record.FailureCount) }

func (c *CompositeResultRecord) UnexpectedFailureCount() int {
	return c.sum(Record.UnexpectedFailureCount)
}

func (c *CompositeResultRecord) TotalFailureCount() int { return c.sum(Record.TotalFailureCount) }

func (c *CompositeResultRecord) SkipCount() int { return c.sum(Record.SkipCount) }

func (c *CompositeResultRecord) HasSucceeded() bool {
	c.mu.Lock()
	stopped := c.stopTime != nil
	children := make([]Record, len(c.children))
	copy(children, c.children)
	c.mu.Unlock()
	if !stopped {
		return false
	}
	for _, ch := range children {
		if ch.TotalFailureCount() != 0 {
			return false
		}
	}
	return true
}

func (c *CompositeResultRecord) Failures() []Failure {
	c.mu.Lock()
	children := make([]Record, len(c.children))
	copy(children, c.children)
	c.mu.Unlock()
	var out []Failure
	for _, ch := range children {
		out = append(out, ch.Failures()...)
	}
	return out
}

func (c *CompositeResultRecord) Skips() []SkipInfo {
	c.mu.Lock()
	children := make([]Record, len(c.children))
	copy(children, c.children)
	c.mu.Unlock()
	var out []SkipInfo
	for _, ch := range children {
		out = append(out, ch.Skips()...)
	}
	return out
}

func (c *CompositeResultRecord) sum(field func(Record) int) int {
	c.mu.Lock()
	children := make([]Record, len(c.children))
	copy(children, c.children)
	c.mu.Unlock()
	total := 0
	for _, ch := range children {
		total += field(ch)
	}
	return total
}

var (
	_ Record = (*ResultRecord)(nil)
	_ Record = (*CompositeResultRecord)(nil)
)
