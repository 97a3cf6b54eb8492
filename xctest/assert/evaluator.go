// Package assert implements the AssertionEvaluator (spec.md §4.C): a
// single evaluator routed through by a family of assertion helpers,
// which funnels failures into the currently running Case's
// ResultRecord.
package assert

import (
	"fmt"
	"math"
	"reflect"

	"github.com/gocorexctest/xctest"
)

// Outcome is the three-way result of evaluating a predicate.
type Outcome int

const (
	Success Outcome = iota
	ExpectedFailureOutcome
	UnexpectedFailureOutcome
)

// Predicate is a closure under evaluation. A panic inside predicate is
// caught by Evaluate and treated as an unexpected failure, matching
// "if predicate throws" in spec.md §4.C.
type Predicate func() PredicateResult

// PredicateResult is what a Predicate reports back to Evaluate.
type PredicateResult struct {
	Outcome Outcome
	Details string
	Cause   error
}

func success() PredicateResult { return PredicateResult{Outcome: Success} }

func expectedFailure(details string) PredicateResult {
	return PredicateResult{Outcome: ExpectedFailureOutcome, Details: details}
}

func unexpectedFailure(cause error, details string) PredicateResult {
	return PredicateResult{Outcome: UnexpectedFailureOutcome, Cause: cause, Details: details}
}

// Evaluate runs predicate, classifies its outcome, and — if it did
// not succeed — routes a failure into the currently active Case's
// ResultRecord (spec.md §4.C). With no active case, the failure is
// silently dropped, so assertion helpers remain safely callable
// outside a test.
func Evaluate(kind string, location xctest.SourceLocation, message string, predicate Predicate) PredicateResult {
	result := invoke(predicate)
	if result.Outcome != Success {
		desc := kind + " " + result.Details
		if message != "" {
			desc = desc + " - " + message
		}
		if c := xctest.CurrentCase(); c != nil {
			c.RecordFailure(desc, location, result.Outcome != UnexpectedFailureOutcome)
		}
	}
	return result
}

func invoke(predicate Predicate) (result PredicateResult) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			result = unexpectedFailure(err, fmt.Sprintf("threw error %q", err.Error()))
		}
	}()
	return predicate()
}

// Equal asserts expected == actual by deep equality.
func Equal(location xctest.SourceLocation, message string, expected, actual any) bool {
	result := Evaluate("Equal", location, message, func() PredicateResult {
		if reflect.DeepEqual(expected, actual) {
			return success()
		}
		return expectedFailure(fmt.Sprintf("(%q) is not equal to (%q)", fmt.Sprint(expected), fmt.Sprint(actual)))
	})
	return result.Outcome == Success
}

// NotEqual asserts expected != actual by deep equality.
func NotEqual(location xctest.SourceLocation, message string, expected, actual any) bool {
	result := Evaluate("NotEqual", location, message, func() PredicateResult {
		if !reflect.DeepEqual(expected, actual) {
			return success()
		}
		return expectedFailure(fmt.Sprintf("(%q) is equal to (%q)", fmt.Sprint(expected), fmt.Sprint(actual)))
	})
	return result.Outcome == Success
}

// EqualWithAccuracy asserts |a-b| <= accuracy, checking exact equality
// first so infinities and self-equal NaN-free values short-circuit
// correctly (spec.md §4.C).
func EqualWithAccuracy(location xctest.SourceLocation, message string, a, b, accuracy float64) bool {
	result := Evaluate("EqualWithAccuracy", location, message, func() PredicateResult {
		if a == b {
			return success()
		}
		if math.Abs(a-b) <= accuracy {
			return success()
		}
		return expectedFailure(fmt.Sprintf("(%v) is not equal to (%v) +/- (%v)", a, b, accuracy))
	})
	return result.Outcome == Success
}

// GreaterThan asserts a > b.
func GreaterThan(location xctest.SourceLocation, message string, a, b float64) bool {
	result := Evaluate("GreaterThan", location, message, func() PredicateResult {
		if a > b {
			return success()
		}
		return expectedFailure(fmt.Sprintf("(%v) is not greater than (%v)", a, b))
	})
	return result.Outcome == Success
}

// LessThan asserts a < b.
func LessThan(location xctest.SourceLocation, message string, a, b float64) bool {
	result := Evaluate("LessThan", location, message, func() PredicateResult {
		if a < b {
			return success()
		}
		return expectedFailure(fmt.Sprintf("(%v) is not less than (%v)", a, b))
	})
	return result.Outcome == Success
}

// Nil asserts value is nil (or a nil interface/pointer/slice/map).
func Nil(location xctest.SourceLocation, message string, value any) bool {
	result := Evaluate("Nil", location, message, func() PredicateResult {
		if isNil(value) {
			return success()
		}
		return expectedFailure(fmt.Sprintf("(%q) is not nil", fmt.Sprint(value)))
	})
	return result.Outcome == Success
}

// NotNil asserts value is not nil.
func NotNil(location xctest.SourceLocation, message string, value any) bool {
	result := Evaluate("NotNil", location, message, func() PredicateResult {
		if !isNil(value) {
			return success()
		}
		return expectedFailure("unexpected nil value")
	})
	return result.Outcome == Success
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// True asserts condition is true.
func True(location xctest.SourceLocation, message string, condition bool) bool {
	result := Evaluate("True", location, message, func() PredicateResult {
		if condition {
			return success()
		}
		return expectedFailure("is not true")
	})
	return result.Outcome == Success
}

// False asserts condition is false.
func False(location xctest.SourceLocation, message string, condition bool) bool {
	result := Evaluate("False", location, message, func() PredicateResult {
		if !condition {
			return success()
		}
		return expectedFailure("is not false")
	})
	return result.Outcome == Success
}

// NoThrow asserts fn returns a nil error.
func NoThrow(location xctest.SourceLocation, message string, fn func() error) bool {
	result := Evaluate("NoThrow", location, message, func() PredicateResult {
		if err := fn(); err != nil {
			return expectedFailure(fmt.Sprintf("threw error %q", err.Error()))
		}
		return success()
	})
	return result.Outcome == Success
}

// Throws asserts fn returns a non-nil error.
func Throws(location xctest.SourceLocation, message string, fn func() error) bool {
	result := Evaluate("Throws", location, message, func() PredicateResult {
		if err := fn(); err != nil {
			return success()
		}
		return expectedFailure("did not throw an error")
	})
	return result.Outcome == Success
}

// Fail unconditionally records a failure with message.
func Fail(location xctest.SourceLocation, message string) {
	Evaluate("Fail", location, "", func() PredicateResult {
		return expectedFailure(message)
	})
}

// Unwrap returns value unwrapped if err is nil; otherwise it records
// the failure (via Evaluate) and returns an
// *xctest.UnwrapFailureSentinel wrapping err, marked not to be
// recorded again by the caller's error-classification path (spec.md
// §4.C).
func Unwrap[T any](location xctest.SourceLocation, message string, value T, err error) (T, error) {
	if err == nil {
		return value, nil
	}
	Evaluate("Unwrap", location, message, func() PredicateResult {
		return expectedFailure(fmt.Sprintf("threw error %q", err.Error()))
	})
	var zero T
	return zero, &xctest.UnwrapFailureSentinel{Cause: err}
}
