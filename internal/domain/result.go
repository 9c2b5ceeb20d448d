package domain

// Status is the fixed per-test-case outcome taxonomy.
type Status string

const (
	StatusSuccess             Status = "Success"
	StatusTimeLimitExceeded   Status = "Time Limit Exceeded"
	StatusMemoryLimitExceeded Status = "Memory Limit Exceeded"
	StatusRuntimeError        Status = "Runtime Error"
	StatusCompilationError    Status = "Compilation Error"
	StatusInternalError       Status = "Internal Error"
)

// ExecutionResult is the outcome of running a submission against one test
// case. Exactly one is produced per test case, in submission order, with
// TestCaseNumber equal to the 1-based position in the submission.
type ExecutionResult struct {
	TestCaseNumber int     `json:"test_case_number" db:"test_case_number"`
	Input          string  `json:"input" db:"input"`
	ExpectedOutput string  `json:"expected_output" db:"expected_output"`
	ActualOutput   string  `json:"actual_output" db:"actual_output"`
	TimeTaken      float64 `json:"time_taken" db:"time_taken"`
	MemoryUsed     float64 `json:"memory_used" db:"memory_used"` // megabytes, best-effort, zero when unmeasurable
	Status         Status  `json:"status" db:"status"`
	ErrorMessage   string  `json:"error_message,omitempty" db:"error_message"`
	Passed         bool    `json:"passed" db:"passed"`
}

type SubmissionResultTable struct {
	SubmissionID   string
	TestCaseNumber string
	Input          string
	ExpectedOutput string
	ActualOutput   string
	TimeTaken      string
	MemoryUsed     string
	Status         string
	ErrorMessage   string
	Passed         string
}

func GetSubmissionResultTable() SubmissionResultTable {
	return SubmissionResultTable{
		SubmissionID:   "submission_id",
		TestCaseNumber: "test_case_number",
		Input:          "input",
		ExpectedOutput: "expected_output",
		ActualOutput:   "actual_output",
		TimeTaken:      "time_taken",
		MemoryUsed:     "memory_used",
		Status:         "status",
		ErrorMessage:   "error_message",
		Passed:         "passed",
	}
}

func (SubmissionResultTable) TableName() string {
	return "submission_results"
}
