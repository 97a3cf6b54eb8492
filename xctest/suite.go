package xctest

import (
	"fmt"

	"github.com/gocorexctest/xctest/internal/xcerrors"
)

// Suite is a composite TestEntity: an ordered list of child entities,
// with an optional class-level setUp/tearDown pair invoked exactly
// once per run regardless of how many of the class's methods are
// selected (spec.md §4.B "Setup-order protocol").
type Suite struct {
	name     string
	children []TestEntity

	classSetUp    func() error
	classTearDown func() error
}

// NewSuite constructs a plain composite Suite with no class-level
// setUp/tearDown (used for the synthetic root/bundle suites).
func NewSuite(name string, children ...TestEntity) *Suite {
	return &Suite{name: name, children: children}
}

// NewClassSuite constructs a Suite representing one test class: it
// owns the class's setUp/tearDown-once protocol and its ordered list
// of Case children (spec.md §4.B).
func NewClassSuite(className string, cases []TestEntity, classSetUp, classTearDown func() error) *Suite {
	return &Suite{name: className, children: cases, classSetUp: classSetUp, classTearDown: classTearDown}
}

// Name returns the suite's name.
func (s *Suite) Name() string { return s.name }

// CaseCount sums CaseCount over all children.
func (s *Suite) CaseCount() int {
	total := 0
	for _, c := range s.children {
		total += c.CaseCount()
	}
	return total
}

// Children returns the ordered list of child entities.
func (s *Suite) Children() []TestEntity { return s.children }

// Execute runs the uniform template of spec.md §4.B: instantiate the
// record, start, preBody (class setUp once), body (iterate children),
// postBody (class tearDown once), stop.
func (s *Suite) Execute(ctx *runContext) Record {
	record := NewCompositeResultRecord()
	if ctx.hub != nil {
		ctx.hub.SuiteWillStart(s.name)
	}
	record.Start()

	if s.classSetUp != nil {
		if err := s.classSetUp(); err != nil {
			// Class-level setUp has no ResultRecord of its own to record
			// against (composite records only aggregate); a failure here
			// is infrastructure-level, so it aborts the run rather than
			// silently continuing with an unprepared class.
			panicClassLifecycle("setUpClass", s.name, err)
		}
	}

	for _, child := range s.children {
		childRecord := child.Execute(ctx)
		record.AddChild(childRecord)
	}

	if s.classTearDown != nil {
		if err := s.classTearDown(); err != nil {
			panicClassLifecycle("tearDownClass", s.name, err)
		}
	}

	record.Stop()
	if ctx.hub != nil {
		ctx.hub.SuiteDidFinish(s.name, summaryFromRecord(record))
	}
	return record
}

func panicClassLifecycle(phase, className string, cause error) {
	xcerrors.Abort(xcerrors.NewConfigurationError(
		xcerrors.CodeClassLifecycle,
		fmt.Sprintf("%s failed for class %q", phase, className),
		cause,
	))
}
