package sandbox

import (
	"strings"
	"testing"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

func testSubmission(n int) *domain.Submission {
	tcs := make([]domain.TestCase, 0, n)
	for i := 0; i < n; i++ {
		tcs = append(tcs, domain.TestCase{Input: "in", ExpectedOutput: "out"})
	}
	return domain.NewSubmission("u1", "print(1)", "python", 2, 256, tcs)
}

func TestClassifySuccessVerdicts(t *testing.T) {
	tc := domain.TestCase{Input: "1 2", ExpectedOutput: "3\n"}

	res := Classify(Record{Status: TokenSuccess, Output: "3", Time: 0.05}, 1, tc)
	if res.Status != domain.StatusSuccess || !res.Passed {
		t.Fatalf("trailing whitespace should not fail the comparison: %+v", res)
	}

	res = Classify(Record{Status: TokenSuccess, Output: "4", Time: 0.05}, 1, tc)
	if res.Status != domain.StatusSuccess {
		t.Fatalf("wrong answer must stay Success: %+v", res)
	}
	if res.Passed {
		t.Fatalf("wrong answer marked passed")
	}
}

func TestClassifyTimeLimit(t *testing.T) {
	res := Classify(Record{Status: TokenTimeLimitExceeded, Time: 2.001}, 1, domain.TestCase{})
	if res.Status != domain.StatusTimeLimitExceeded {
		t.Fatalf("expected TLE, got %q", res.Status)
	}
	if res.Passed {
		t.Fatalf("TLE marked passed")
	}
}

func TestClassifyMemorySignals(t *testing.T) {
	for _, stderr := range []string{
		"terminate called after throwing an instance of 'std::bad_alloc'",
		"Exception in thread \"main\" java.lang.OutOfMemoryError: Java heap space",
		"MemoryError",
		"runtime: out of memory",
		"fork: cannot allocate memory",
	} {
		res := Classify(Record{Status: TokenRuntimeError, Stderr: stderr}, 1, domain.TestCase{})
		if res.Status != domain.StatusMemoryLimitExceeded {
			t.Fatalf("stderr %q should classify as MLE, got %q", stderr, res.Status)
		}
	}

	res := Classify(Record{Status: TokenRuntimeError, Stderr: "segmentation fault"}, 1, domain.TestCase{})
	if res.Status != domain.StatusRuntimeError {
		t.Fatalf("plain crash should stay Runtime Error, got %q", res.Status)
	}
}

func TestClassifyUsesSubmissionPayloads(t *testing.T) {
	// The stream's own input/expected copies are untrusted.
	rec := Record{Status: TokenSuccess, Input: "corrupted", Expected: "corrupted", Output: "out"}
	res := Classify(rec, 3, domain.TestCase{Input: "in", ExpectedOutput: "out"})
	if res.Input != "in" || res.ExpectedOutput != "out" || res.TestCaseNumber != 3 {
		t.Fatalf("record payloads leaked into the result: %+v", res)
	}
}

func TestAssembleCompileErrorCollapses(t *testing.T) {
	sub := testSubmission(3)
	results := Assemble(sub, Stream{CompileError: true, CompileLog: "main.cpp:1: error"}, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(results))
	}
	for i, res := range results {
		if res.Status != domain.StatusCompilationError {
			t.Fatalf("row %d not Compilation Error: %+v", i, res)
		}
		if res.TestCaseNumber != i+1 || res.Input != "in" || res.ExpectedOutput != "out" {
			t.Fatalf("row %d lost its test case identity: %+v", i, res)
		}
		if !strings.Contains(res.ErrorMessage, "error") {
			t.Fatalf("row %d lost the diagnostic: %+v", i, res)
		}
	}
}

func TestAssembleMalformedCollapses(t *testing.T) {
	sub := testSubmission(2)
	st := Stream{
		Started:   true,
		Malformed: true,
		Records:   []Record{{Index: 1, Status: TokenSuccess, Output: "out"}},
	}
	results := Assemble(sub, st, "")
	for _, res := range results {
		if res.Status != domain.StatusInternalError {
			t.Fatalf("malformed stream must collapse to Internal Error: %+v", res)
		}
	}
}

func TestAssembleEmptyStreamUsesCapturedStderr(t *testing.T) {
	sub := testSubmission(2)
	results := Assemble(sub, Stream{}, "docker: image not found")
	if len(results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(results))
	}
	for _, res := range results {
		if res.Status != domain.StatusInternalError {
			t.Fatalf("expected Internal Error, got %q", res.Status)
		}
		if res.ErrorMessage != "docker: image not found" {
			t.Fatalf("captured stderr not surfaced: %q", res.ErrorMessage)
		}
	}
}

func TestAssembleTruncatedStream(t *testing.T) {
	sub := testSubmission(3)
	st := Stream{
		Started: true,
		Records: []Record{
			{Index: 1, Status: TokenSuccess, Output: "out", Time: 0.1},
			{Index: 2, Status: TokenRuntimeError, Stderr: "crash", Time: 0.2},
		},
	}
	results := Assemble(sub, st, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(results))
	}
	if results[0].Status != domain.StatusSuccess || !results[0].Passed {
		t.Fatalf("first row misclassified: %+v", results[0])
	}
	if results[1].Status != domain.StatusRuntimeError {
		t.Fatalf("second row misclassified: %+v", results[1])
	}
	if results[2].Status != domain.StatusInternalError {
		t.Fatalf("missing row must be Internal Error: %+v", results[2])
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.0015, 0.002},
		{1.23456, 1.235},
		{-0.5, 0},
		{0, 0},
	}
	for _, c := range cases {
		if got := NormalizeTime(c.in); got != c.want {
			t.Fatalf("NormalizeTime(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCapMessage(t *testing.T) {
	long := strings.Repeat("x", 5000)
	if got := capMessage("  " + long); len(got) != 4096 {
		t.Fatalf("message not capped: %d bytes", len(got))
	}
	if capMessage("  trimmed \n") != "trimmed" {
		t.Fatalf("message not trimmed")
	}
}
