package xctest

import (
	"time"

	"github.com/google/uuid"

	"github.com/gocorexctest/xctest/config"
	"github.com/gocorexctest/xctest/expect"
	"github.com/gocorexctest/xctest/internal/corelog"
	"github.com/gocorexctest/xctest/observe"
)

// ExecutionEngine drives a root Suite through its full lifecycle
// (spec.md §4.D): start → setUp → body → teardown → stop, depth-first,
// single-threaded and sequential (spec.md §5).
type ExecutionEngine struct {
	hub    *observe.Hub
	logger corelog.Logger
	cfg    *config.Config
}

// NewExecutionEngine constructs an engine. hub and logger may be nil;
// a nil logger falls back to corelog.NewDefault(), a nil hub runs with
// no observers attached.
func NewExecutionEngine(hub *observe.Hub, logger corelog.Logger, cfg *config.Config) *ExecutionEngine {
	if logger == nil {
		logger = corelog.NewDefault()
	}
	if hub == nil {
		hub = observe.New()
	}
	return &ExecutionEngine{hub: hub, logger: logger, cfg: cfg}
}

// Hub exposes the engine's observer fan-out so callers can Add/Remove
// observers before Run.
func (e *ExecutionEngine) Hub() *observe.Hub { return e.hub }

// Run executes root as a bundle: BundleWillStart/BundleDidFinish wrap
// the whole traversal, honoring cfg.RunTimeout as a soft wall-clock
// budget logged (not enforced as a hard cancel, since the engine has
// no mid-body cancellation per spec.md §5).
func (e *ExecutionEngine) Run(root *Suite) Record {
	start := time.Now()
	runID := uuid.New().String()
	e.logger.Info("bundle will start",
		corelog.String("runID", runID),
		corelog.String("bundle", root.Name()),
		corelog.Int("caseCount", root.CaseCount()),
	)
	e.hub.BundleWillStart(root.Name())

	ctx := &runContext{
		hub:     e.hub,
		manager: expect.NewManager(),
		cfg: runConfig{
			defaultWaiterTimeout: e.cfg.DefaultWaiterTimeout,
			sliceInterval:        e.cfg.WaiterSliceInterval,
		},
	}

	record := root.Execute(ctx)

	elapsed := time.Since(start)
	summary := summaryFromRecord(record)
	e.hub.BundleDidFinish(root.Name(), summary)
	e.logger.Info("bundle did finish",
		corelog.String("runID", runID),
		corelog.String("bundle", root.Name()),
		corelog.Int("executionCount", record.ExecutionCount()),
		corelog.Int("failureCount", record.TotalFailureCount()),
		corelog.Int("skipCount", record.SkipCount()),
		corelog.Duration("elapsed", elapsed),
	)
	if e.cfg.RunTimeout > 0 && elapsed > e.cfg.RunTimeout {
		e.logger.Warn("run exceeded configured timeout",
			corelog.Duration("elapsed", elapsed),
			corelog.Duration("runTimeout", e.cfg.RunTimeout),
		)
	}
	return record
}

// Succeeded reports whether a Run's resulting Record has zero total
// failures (spec.md §6 "exits with success if root's
// total-failure-count is zero").
func Succeeded(record Record) bool {
	return record.TotalFailureCount() == 0
}
