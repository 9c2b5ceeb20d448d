package errs

import "errors"

var (
	// InvalidSubmission covers missing/malformed code, language, limits or
	// test cases. Surfaced before any sandbox work is attempted.
	InvalidSubmission = errors.New("invalid submission")

	// UnsupportedLanguage is permanent; callers must not retry.
	UnsupportedLanguage = errors.New("unsupported language")

	// Infrastructure marks faults of the engine itself (sandbox could not be
	// started, crashed outside the protocol). Never attributed to the
	// submission.
	Infrastructure = errors.New("infrastructure error")

	SubmissionNotFound = errors.New("submission not found")
)
