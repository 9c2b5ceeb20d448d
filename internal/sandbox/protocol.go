package sandbox

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Directive prefixes reserved in the sandbox stdout stream. Anything else on
// the stream is program output and is ignored by the parser.
const (
	MarkerCompilationError = "COMPILATION_ERROR: "
	MarkerResultsStart     = "RESULTS_START"
	MarkerTestCaseResult   = "TEST_CASE_RESULT: "
	MarkerResultsEnd       = "RESULTS_END"
)

// RecordVersion is the schema version the driver stamps on every test-case
// record. A record with any other version is invalid.
const RecordVersion = "v1"

// Status tokens declared by the driver (and by remote execution services).
const (
	TokenSuccess             = "SUCCESS"
	TokenTimeLimitExceeded   = "TIME_LIMIT_EXCEEDED"
	TokenMemoryLimitExceeded = "MEMORY_LIMIT_EXCEEDED"
	TokenRuntimeError        = "RUNTIME_ERROR"
	TokenCompilationError    = "COMPILATION_ERROR"
)

// Record is one decoded TEST_CASE_RESULT directive.
type Record struct {
	Index    int
	Input    string
	Expected string
	Output   string
	Stderr   string
	Status   string
	Time     float64
}

// Stream is the decoded form of one sandbox invocation's stdout.
type Stream struct {
	CompileError bool
	CompileLog   string
	Started      bool // RESULTS_START was observed
	Ended        bool // RESULTS_END was observed
	Records      []Record
	Malformed    bool // a directive failed schema validation
}

// ParseStream reconstructs the protocol stream from captured stdout. It never
// fails: schema violations set Malformed so the caller can degrade the whole
// batch to Internal Error instead of silently dropping lines.
func ParseStream(stdout string) Stream {
	var st Stream
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, MarkerCompilationError):
			st.CompileError = true
			diag, err := decodeField(strings.TrimPrefix(line, MarkerCompilationError))
			if err != nil {
				st.Malformed = true
				continue
			}
			st.CompileLog = diag
		case line == MarkerResultsStart:
			st.Started = true
		case line == MarkerResultsEnd:
			st.Ended = true
		case strings.HasPrefix(line, MarkerTestCaseResult):
			rec, err := decodeRecord(strings.TrimPrefix(line, MarkerTestCaseResult))
			if err != nil {
				st.Malformed = true
				continue
			}
			st.Records = append(st.Records, rec)
		}
	}
	return st
}

// decodeRecord validates and decodes one v1 record payload:
//
//	v1|<index>|<b64 input>|<b64 expected>|<b64 output>|<b64 stderr>|<status>|<time>
func decodeRecord(payload string) (Record, error) {
	fields := strings.Split(payload, "|")
	if len(fields) != 8 {
		return Record{}, errMalformed("field count", payload)
	}
	if fields[0] != RecordVersion {
		return Record{}, errMalformed("version", fields[0])
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil || idx < 1 {
		return Record{}, errMalformed("index", fields[1])
	}
	var rec Record
	rec.Index = idx
	if rec.Input, err = decodeField(fields[2]); err != nil {
		return Record{}, err
	}
	if rec.Expected, err = decodeField(fields[3]); err != nil {
		return Record{}, err
	}
	if rec.Output, err = decodeField(fields[4]); err != nil {
		return Record{}, err
	}
	if rec.Stderr, err = decodeField(fields[5]); err != nil {
		return Record{}, err
	}
	switch fields[6] {
	case TokenSuccess, TokenTimeLimitExceeded, TokenMemoryLimitExceeded, TokenRuntimeError:
		rec.Status = fields[6]
	default:
		return Record{}, errMalformed("status", fields[6])
	}
	t, err := strconv.ParseFloat(fields[7], 64)
	if err != nil || t < 0 {
		return Record{}, errMalformed("time", fields[7])
	}
	rec.Time = t
	return rec, nil
}

func decodeField(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", errMalformed("base64 field", s)
	}
	return string(raw), nil
}

type protocolError struct {
	what  string
	value string
}

func (e protocolError) Error() string {
	return "protocol: invalid " + e.what + ": " + e.value
}

func errMalformed(what, value string) error {
	if len(value) > 64 {
		value = value[:64]
	}
	return protocolError{what: what, value: value}
}
