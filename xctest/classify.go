package xctest

import "fmt"

// ErrorClassification records how a caught error should affect the
// running Case, per spec.md §3.
type ErrorClassification struct {
	// RecordAsFailure, when true, causes the error to be recorded as a
	// failure on the active ResultRecord.
	RecordAsFailure bool
	// SkipTestInvocation, when true and the error was thrown from a
	// pre-body phase (setUp), causes the test body to be skipped.
	SkipTestInvocation bool
	// RecordAsSkip, when true, causes the error to be recorded as a
	// skip rather than (or in addition to) a failure.
	RecordAsSkip bool
}

// ordinaryClassification is the default for any error that is not a
// recognized Skip or UnwrapFailureSentinel.
var ordinaryClassification = ErrorClassification{
	RecordAsFailure:    true,
	SkipTestInvocation: true,
	RecordAsSkip:       false,
}

var skipClassification = ErrorClassification{
	RecordAsFailure:    false,
	SkipTestInvocation: true,
	RecordAsSkip:       true,
}

var unwrapSentinelClassification = ErrorClassification{
	RecordAsFailure:    false,
	SkipTestInvocation: true,
	RecordAsSkip:       false,
}

// Skip is thrown (returned) from setUp or a test body to mark the
// Case as skipped rather than failed or passed.
type Skip struct {
	Message  string
	Location SourceLocation
}

// Error implements the error interface.
func (s *Skip) Error() string {
	if s.Message == "" {
		return "test skipped"
	}
	return fmt.Sprintf("test skipped: %s", s.Message)
}

// Summary returns the one-line description used in skip reporting.
func (s *Skip) Summary() string {
	if s.Message == "" {
		return "Test skipped"
	}
	return s.Message
}

// UnwrapFailureSentinel is returned by assert.Unwrap when the error
// it is given is non-nil; the failure it represents
// has already been recorded by the AssertionEvaluator, so
// ClassifyError marks it as not-to-be-recorded-again (spec.md §4.C).
type UnwrapFailureSentinel struct {
	Cause error
}

// Error implements the error interface.
func (u *UnwrapFailureSentinel) Error() string {
	return fmt.Sprintf("error while unwrapping: %v", u.Cause)
}

// Unwrap exposes the original cause.
func (u *UnwrapFailureSentinel) Unwrap() error { return u.Cause }

// ClassifyError returns the ErrorClassification for err, per the
// taxonomy in spec.md §3/§7.
func ClassifyError(err error) ErrorClassification {
	if err == nil {
		return ordinaryClassification
	}
	switch err.(type) {
	case *Skip:
		return skipClassification
	case *UnwrapFailureSentinel:
		return unwrapSentinelClassification
	default:
		return ordinaryClassification
	}
}
