package submissions

import (
	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// TestCaseRequest is one input/expected pair in submission order.
type TestCaseRequest struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// CreateSubmissionRequest represents a request to judge a piece of code.
type CreateSubmissionRequest struct {
	Language    string            `json:"language"`
	Code        string            `json:"code"`
	TimeLimit   int               `json:"time_limit"`
	MemoryLimit int               `json:"memory_limit"`
	TestCases   []TestCaseRequest `json:"test_cases"`
}

// CreateSubmissionResponse represents a response to an enqueue request.
type CreateSubmissionResponse struct {
	SubmissionID uuid.UUID               `json:"submissionId"`
	Status       domain.SubmissionStatus `json:"status"`
}

// SubmissionResponse is a submission with its judged results, when present.
type SubmissionResponse struct {
	SubmissionID uuid.UUID                `json:"submissionId"`
	Language     string                   `json:"language"`
	Status       domain.SubmissionStatus  `json:"status"`
	Results      []domain.ExecutionResult `json:"results,omitempty"`
}

func (r CreateSubmissionRequest) toDomain(userID string) *domain.Submission {
	testCases := make([]domain.TestCase, 0, len(r.TestCases))
	for _, tc := range r.TestCases {
		testCases = append(testCases, domain.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}
	return domain.NewSubmission(userID, r.Code, r.Language, r.TimeLimit, r.MemoryLimit, testCases)
}
