// Package reporter implements the default textual progress observer
// (spec.md §6): an Observer implementation, not part of the core
// contract, that prints the canonical failure/skip/summary line
// formats tooling greps for.
package reporter

import (
	"fmt"
	"io"

	"github.com/gocorexctest/xctest/observe"
)

// TextReporter is the default observe.Observer: it prints failures and
// skips as they're recorded and a final summary line at bundle finish.
type TextReporter struct {
	out io.Writer
}

// New constructs a TextReporter writing to out.
func New(out io.Writer) *TextReporter {
	return &TextReporter{out: out}
}

func (r *TextReporter) BundleWillStart(bundleName string) {
	fmt.Fprintf(r.out, "Test Suite '%s' started\n", bundleName)
}

// BundleDidFinish prints the canonical summary line of spec.md §6:
// "Executed <N> test(s), with <S> test(s) skipped and <F> failure(s)
// (<U> unexpected) in <testDuration> (<totalDuration>) seconds".
func (r *TextReporter) BundleDidFinish(bundleName string, summary observe.Summary) {
	fmt.Fprintf(r.out, "Executed %d test(s), with %d test(s) skipped and %d failure(s) (%d unexpected) in %.3f (%.3f) seconds\n",
		summary.ExecutionCount, summary.SkipCount, summary.TotalFailureCount(), summary.UnexpectedFailureCount,
		summary.Duration.Seconds(), summary.Duration.Seconds(),
	)
}

func (r *TextReporter) SuiteWillStart(suiteName string) {
	fmt.Fprintf(r.out, "Test Suite '%s' started\n", suiteName)
}

func (r *TextReporter) SuiteDidFinish(suiteName string, summary observe.Summary) {
	fmt.Fprintf(r.out, "Test Suite '%s' finished\n", suiteName)
}

func (r *TextReporter) CaseWillStart(caseName string) {
	fmt.Fprintf(r.out, "Test Case '%s' started\n", caseName)
}

func (r *TextReporter) CaseDidFinish(caseName string, summary observe.Summary) {
	status := "passed"
	if summary.TotalFailureCount() > 0 {
		status = "failed"
	}
	fmt.Fprintf(r.out, "Test Case '%s' %s (%.3f seconds)\n", caseName, status, summary.Duration.Seconds())
}

// CaseDidFail prints the canonical failure line: "<file>:<line>: error: <caseName> : <description>".
func (r *TextReporter) CaseDidFail(caseName, description string, location observe.Location) {
	fmt.Fprintf(r.out, "%s:%d: error: %s : %s\n", location.File, location.Line, caseName, description)
}

// CaseWasSkipped prints the canonical skip line: "<file>:<line>: <caseName> : <description>".
func (r *TextReporter) CaseWasSkipped(caseName, description string, location observe.Location) {
	fmt.Fprintf(r.out, "%s:%d: %s : %s\n", location.File, location.Line, caseName, description)
}

var _ observe.Observer = (*TextReporter)(nil)
