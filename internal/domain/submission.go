package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus tracks a submission through the judging queue.
type SubmissionStatus string

const (
	SubmissionQueued  SubmissionStatus = "QUEUED"
	SubmissionRunning SubmissionStatus = "RUNNING"
	SubmissionJudged  SubmissionStatus = "JUDGED"
	SubmissionFailed  SubmissionStatus = "FAILED"
)

// Submission represents a code submission to be judged against test cases
type Submission struct {
	ID          uuid.UUID
	UserID      string
	Code        string
	Language    string
	TimeLimit   int // seconds, per test case
	MemoryLimit int // megabytes
	TestCases   []TestCase
	Status      SubmissionStatus
	SubmittedAt time.Time
}

// NewSubmission creates a new queued submission
func NewSubmission(userID, code, language string, timeLimit, memoryLimit int, testCases []TestCase) *Submission {
	return &Submission{
		ID:          uuid.New(),
		UserID:      userID,
		Code:        code,
		Language:    language,
		TimeLimit:   timeLimit,
		MemoryLimit: memoryLimit,
		TestCases:   testCases,
		Status:      SubmissionQueued,
		SubmittedAt: time.Now(),
	}
}

type SubmissionTable struct {
	ID          string
	UserID      string
	Code        string
	Language    string
	TimeLimit   string
	MemoryLimit string
	Status      string
	SubmittedAt string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:          "id",
		UserID:      "user_id",
		Code:        "code",
		Language:    "language",
		TimeLimit:   "time_limit",
		MemoryLimit: "memory_limit",
		Status:      "status",
		SubmittedAt: "submitted_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}
