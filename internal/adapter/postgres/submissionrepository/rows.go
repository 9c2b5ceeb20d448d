package submissionrepository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

type testCasePayload struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

func encodeTestCases(testCases []domain.TestCase) ([]byte, error) {
	payload := make([]testCasePayload, 0, len(testCases))
	for _, tc := range testCases {
		payload = append(payload, testCasePayload{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}
	return json.Marshal(payload)
}

func rowToSubmission(row *submissionRow) (*domain.Submission, error) {
	var payload []testCasePayload
	if err := json.Unmarshal(row.TestCases, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal test cases: %w", err)
	}
	testCases := make([]domain.TestCase, 0, len(payload))
	for _, tc := range payload {
		testCases = append(testCases, domain.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}
	return &domain.Submission{
		ID:          row.ID,
		UserID:      row.UserID,
		Code:        row.Code,
		Language:    row.Language,
		TimeLimit:   row.TimeLimit,
		MemoryLimit: row.MemoryLimit,
		TestCases:   testCases,
		Status:      domain.SubmissionStatus(row.Status),
		SubmittedAt: row.SubmittedAt,
	}, nil
}

func pqArray(ids []uuid.UUID) interface{} {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	return pq.Array(raw)
}
