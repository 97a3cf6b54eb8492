package reporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/gocorexctest/xctest/observe"
	"github.com/stretchr/testify/assert"
)

func TestTextReporter_CaseDidFailFormat(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.CaseDidFail("A.t1", `("1") is not equal to ("2")`, observe.Location{File: "a_test.go", Line: 10})

	assert.Equal(t, "a_test.go:10: error: A.t1 : (\"1\") is not equal to (\"2\")\n", buf.String())
}

func TestTextReporter_CaseWasSkippedFormat(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.CaseWasSkipped("A.t1", "needs net", observe.Location{File: "a_test.go", Line: 5})

	assert.Equal(t, "a_test.go:5: A.t1 : needs net\n", buf.String())
}

func TestTextReporter_BundleDidFinishSummaryFormat(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.BundleDidFinish("All tests", observe.Summary{
		ExecutionCount:         3,
		FailureCount:           1,
		UnexpectedFailureCount: 1,
		SkipCount:              1,
		Duration:               2 * time.Second,
	})

	assert.Equal(t, "Executed 3 test(s), with 1 test(s) skipped and 2 failure(s) (1 unexpected) in 2.000 (2.000) seconds\n", buf.String())
}

func TestTextReporter_CaseDidFinishReportsStatus(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.CaseDidFinish("A.t1", observe.Summary{ExecutionCount: 1})
	assert.Contains(t, buf.String(), "passed")
}
