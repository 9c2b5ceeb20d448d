package sandbox

import (
	"math"
	"strings"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// memorySignals are the unambiguous out-of-memory diagnostics runtimes print
// before dying. A process killed without one of these degrades to Runtime
// Error rather than guessing Memory Limit Exceeded.
var memorySignals = []string{
	"std::bad_alloc",
	"OutOfMemoryError",
	"MemoryError",
	"out of memory",
	"cannot allocate memory",
}

// Classify maps one decoded record onto the status taxonomy. Input and
// expected output always come from the submission's own test case, never from
// the protocol stream, so a corrupted record cannot misalign the pair.
func Classify(rec Record, number int, tc domain.TestCase) domain.ExecutionResult {
	res := domain.ExecutionResult{
		TestCaseNumber: number,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		ActualOutput:   rec.Output,
		TimeTaken:      NormalizeTime(rec.Time),
	}

	switch rec.Status {
	case TokenSuccess:
		// A clean exit with wrong output is still Success; passed carries
		// the verdict.
		res.Status = domain.StatusSuccess
		res.Passed = strings.TrimSpace(rec.Output) == strings.TrimSpace(tc.ExpectedOutput)
	case TokenTimeLimitExceeded:
		res.Status = domain.StatusTimeLimitExceeded
		res.ErrorMessage = "time limit exceeded"
	case TokenMemoryLimitExceeded:
		res.Status = domain.StatusMemoryLimitExceeded
		res.ErrorMessage = capMessage(rec.Stderr)
	default:
		if hasMemorySignal(rec.Stderr) {
			res.Status = domain.StatusMemoryLimitExceeded
		} else {
			res.Status = domain.StatusRuntimeError
		}
		res.ErrorMessage = capMessage(rec.Stderr)
	}
	return res
}

// Assemble turns a parsed stream into exactly one result per test case, in
// submission order. When the stream carries no usable per-test records the
// whole batch collapses to a uniform Compilation Error or Internal Error
// table, every row still populated with its input/expected pair.
func Assemble(sub *domain.Submission, st Stream, capturedStderr string) []domain.ExecutionResult {
	n := len(sub.TestCases)

	if st.CompileError {
		return uniform(sub, domain.StatusCompilationError, capMessage(st.CompileLog))
	}
	if st.Malformed {
		return uniform(sub, domain.StatusInternalError, "malformed sandbox result protocol")
	}
	if len(st.Records) == 0 {
		return uniform(sub, domain.StatusInternalError, capMessage(capturedStderr))
	}

	results := make([]domain.ExecutionResult, 0, n)
	for i, tc := range sub.TestCases {
		if i < len(st.Records) {
			results = append(results, Classify(st.Records[i], i+1, tc))
			continue
		}
		// Truncated stream: the sandbox died mid-batch.
		results = append(results, domain.ExecutionResult{
			TestCaseNumber: i + 1,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Status:         domain.StatusInternalError,
			ErrorMessage:   "sandbox terminated before this test case",
		})
	}
	return results
}

func uniform(sub *domain.Submission, status domain.Status, message string) []domain.ExecutionResult {
	results := make([]domain.ExecutionResult, 0, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		results = append(results, domain.ExecutionResult{
			TestCaseNumber: i + 1,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Status:         status,
			ErrorMessage:   message,
		})
	}
	return results
}

// NormalizeTime clamps to non-negative and rounds to three fractional digits.
func NormalizeTime(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	return math.Round(t*1000) / 1000
}

func hasMemorySignal(stderr string) bool {
	for _, sig := range memorySignals {
		if strings.Contains(stderr, sig) {
			return true
		}
	}
	return false
}

func capMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) > 4096 {
		msg = msg[:4096]
	}
	return msg
}
