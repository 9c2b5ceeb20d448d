package domain

// TestCase is a single input/expected-output pair. Identity is positional:
// the 1-based index within the submission's test case list.
type TestCase struct {
	Input          string
	ExpectedOutput string
}
