package xctest

import (
	"fmt"
	"time"

	"github.com/gocorexctest/xctest/expect"
	"github.com/gocorexctest/xctest/internal/xcerrors"
	"github.com/gocorexctest/xctest/observe"
)

// Method describes one registered test method's callable surface
// (spec.md §4.G, §9 "Closures capturing methods"): the test body plus
// the optional instance-level setUp/tearDown variants XCTest exposes
// (a throwing and a legacy non-throwing form of each).
type Method struct {
	Name string
	Body func(c *Case) error

	SetUpWithError    func(c *Case) error
	SetUp             func(c *Case)
	TearDown          func(c *Case)
	TearDownWithError func(c *Case) error
}

// Case is a leaf TestEntity: one test method invocation (spec.md §3).
type Case struct {
	className  string
	methodName string
	location   SourceLocation

	method Method

	record *ResultRecord
	hub    *observe.Hub

	manager              *expect.Manager
	defaultWaiterTimeout time.Duration
	sliceInterval        time.Duration

	expectations   []*expect.Expectation
	teardownBlocks []func() error
	skip           *Skip
}

// NewCase constructs a Case for one (class, method) pair.
func NewCase(className string, method Method, location SourceLocation) *Case {
	return &Case{
		className:  className,
		methodName: method.Name,
		location:   location,
		method:     method,
	}
}

// Name returns the "ClassName.methodName" display name.
func (c *Case) Name() string {
	return c.className + "." + c.methodName
}

// DisplayName is an alias for Name kept for readability at call sites
// that are specifically about reporting.
func (c *Case) DisplayName() string { return c.Name() }

// CaseCount is always 1 for a leaf.
func (c *Case) CaseCount() int { return 1 }

// NewExpectation constructs an Expectation owned by this Case
// (spec.md §3 "A Case owns its expectations strongly").
func (c *Case) NewExpectation(description string, location SourceLocation) *expect.Expectation {
	e := expect.NewExpectation(description, expect.Location{File: location.File, Line: location.Line})
	c.expectations = append(c.expectations, e)
	return e
}

// AddTeardownBlock registers fn to run during tearDown, before the
// instance tearDown methods, in reverse registration order (spec.md
// §4.B step 5).
func (c *Case) AddTeardownBlock(fn func() error) {
	c.teardownBlocks = append(c.teardownBlocks, fn)
}

// Wait blocks until expectations are satisfied, using the Case as the
// Waiter's delegate so timeouts/order-violations/inversions/
// interruptions become recorded failures (spec.md §4.E "the default
// delegate is the Case"). A negative timeout means "use the run's
// configured DefaultWaiterTimeout"; zero is a real zero-timeout wait
// (spec.md §8 boundary: returns immediately, completed or timedOut).
func (c *Case) Wait(expectations []*expect.Expectation, timeout time.Duration, enforceOrder bool) expect.Result {
	if timeout < 0 {
		timeout = c.defaultWaiterTimeout
	}
	w := expect.NewWaiter(c, expect.Location{File: c.location.File, Line: c.location.Line})
	if c.sliceInterval > 0 {
		w.SetSliceInterval(c.sliceInterval)
	}
	return w.Wait(c.manager, expectations, timeout, enforceOrder)
}

// RecordFailure records a failure on the Case's ResultRecord and fans
// it out through the observe.Hub, if one is attached to the active run.
func (c *Case) RecordFailure(description string, location SourceLocation, expected bool) {
	if c.record == nil {
		return
	}
	c.record.RecordFailure(description, location, expected)
	if c.hub != nil {
		c.hub.CaseDidFail(c.Name(), description, toObserveLocation(location))
	}
}

// RecordSkip records a skip on the Case's ResultRecord and fans it out.
func (c *Case) RecordSkip(description string, location SourceLocation) {
	if c.record == nil {
		return
	}
	c.record.RecordSkip(description, location)
	if c.hub != nil {
		c.hub.CaseWasSkipped(c.Name(), description, toObserveLocation(location))
	}
}

// Execute runs the Case's full lifecycle (spec.md §4.B): setUp
// sequence, body, unwaited-expectation validation, skip recording,
// teardown sequence.
func (c *Case) Execute(ctx *runContext) Record {
	c.record = NewResultRecord()
	c.hub = ctx.hub
	c.manager = ctx.manager
	c.defaultWaiterTimeout = ctx.cfg.defaultWaiterTimeout
	c.sliceInterval = ctx.cfg.sliceInterval
	if ctx.hub != nil {
		ctx.hub.CaseWillStart(c.Name())
	}
	c.record.Start()

	setCurrentCase(c)
	defer clearCurrentCase()

	skipBody := c.performSetUpSequence()

	if !skipBody && c.skip == nil {
		c.invokeBody()
		c.validateUnwaitedExpectations()
	}

	if c.skip != nil {
		c.RecordSkip(c.skip.Summary(), c.skip.Location)
	}

	c.performTearDownSequence()

	c.record.Stop()
	if ctx.hub != nil {
		ctx.hub.CaseDidFinish(c.Name(), summaryFromRecord(c.record))
	}
	return c.record
}

// performSetUpSequence runs the throwing setUp then the legacy
// non-throwing setUp, classifying any thrown error (spec.md §4.B
// step 1). It returns whether the test body should be skipped.
func (c *Case) performSetUpSequence() (skipBody bool) {
	if c.method.SetUpWithError != nil {
		err := c.callGuarded(func() error { return c.method.SetUpWithError(c) })
		if c.handleLifecycleError(err) {
			skipBody = true
		}
	}
	if c.method.SetUp != nil {
		c.method.SetUp(c)
	}
	return skipBody
}

func (c *Case) invokeBody() {
	if c.method.Body == nil {
		return
	}
	err := c.callGuarded(func() error { return c.method.Body(c) })
	c.handleLifecycleError(err)
}

// validateUnwaitedExpectations implements spec.md §4.B step 3: any
// expectation the Case created but never waited on is a failure at
// its creation location.
func (c *Case) validateUnwaitedExpectations() {
	for _, e := range c.expectations {
		if !e.HasBeenWaitedOn() {
			loc := e.CreationLocation()
			c.RecordFailure("Failed due to unwaited expectations", SourceLocation{File: loc.File, Line: loc.Line}, true)
		}
	}
}

// performTearDownSequence runs teardown blocks in reverse registration
// order, then the legacy non-throwing tearDown, then the throwing
// tearDown (spec.md §4.B step 5). It always runs, regardless of
// outcome (spec.md §5 "Resource discipline").
func (c *Case) performTearDownSequence() {
	for i := len(c.teardownBlocks) - 1; i >= 0; i-- {
		block := c.teardownBlocks[i]
		err := c.callGuarded(block)
		c.handleLifecycleError(err)
	}
	if c.method.TearDown != nil {
		c.method.TearDown(c)
	}
	if c.method.TearDownWithError != nil {
		err := c.callGuarded(func() error { return c.method.TearDownWithError(c) })
		c.handleLifecycleError(err)
	}
}

// callGuarded converts a panic inside fn (e.g. a misused Expectation
// API call via xcerrors.Abort) back into an error, so one misused
// assertion doesn't crash the whole run (spec.md §7).
func (c *Case) callGuarded(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = xcerrors.Recover(r)
		}
	}()
	return fn()
}

// handleLifecycleError classifies err (spec.md §3/§7) and applies its
// recordAsFailure/recordAsSkip consequences, returning
// skipTestInvocation.
func (c *Case) handleLifecycleError(err error) (skipTestInvocation bool) {
	if err == nil {
		return false
	}
	cls := ClassifyError(err)
	if cls.RecordAsFailure {
		c.RecordFailure(fmt.Sprintf("threw error \"%s\"", err.Error()), c.location, false)
	}
	if cls.RecordAsSkip {
		if sk, ok := err.(*Skip); ok {
			c.skip = sk
		}
	}
	return cls.SkipTestInvocation
}
