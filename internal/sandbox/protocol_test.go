package sandbox

import (
	"encoding/base64"
	"strings"
	"testing"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func recordLine(fields ...string) string {
	return MarkerTestCaseResult + strings.Join(fields, "|")
}

func TestParseStreamWellFormed(t *testing.T) {
	stdout := strings.Join([]string{
		"noise from the program",
		MarkerResultsStart,
		recordLine(RecordVersion, "1", b64("1 2\n"), b64("3\n"), b64("3\n"), b64(""), TokenSuccess, "0.042"),
		recordLine(RecordVersion, "2", b64("5 5\n"), b64("10\n"), b64(""), b64("boom"), TokenRuntimeError, "0.010"),
		MarkerResultsEnd,
	}, "\n")

	st := ParseStream(stdout)
	if st.Malformed {
		t.Fatalf("stream flagged malformed")
	}
	if !st.Started || !st.Ended {
		t.Fatalf("start/end markers not observed: %+v", st)
	}
	if len(st.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(st.Records))
	}

	first := st.Records[0]
	if first.Index != 1 || first.Input != "1 2\n" || first.Expected != "3\n" || first.Output != "3\n" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Status != TokenSuccess || first.Time != 0.042 {
		t.Fatalf("unexpected first record status/time: %+v", first)
	}
	if st.Records[1].Stderr != "boom" {
		t.Fatalf("stderr not decoded: %+v", st.Records[1])
	}
}

func TestParseStreamCompileError(t *testing.T) {
	st := ParseStream(MarkerCompilationError + b64("main.cpp:3: error: expected ';'"))
	if !st.CompileError {
		t.Fatalf("compile error not detected")
	}
	if !strings.Contains(st.CompileLog, "expected ';'") {
		t.Fatalf("compile log not decoded: %q", st.CompileLog)
	}
}

func TestParseStreamCRLF(t *testing.T) {
	stdout := MarkerResultsStart + "\r\n" +
		recordLine(RecordVersion, "1", b64("a"), b64("b"), b64("b"), b64(""), TokenSuccess, "0.001") + "\r\n" +
		MarkerResultsEnd + "\r\n"
	st := ParseStream(stdout)
	if st.Malformed || len(st.Records) != 1 || !st.Ended {
		t.Fatalf("CRLF stream not parsed: %+v", st)
	}
}

func TestParseStreamMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"field count":   recordLine(RecordVersion, "1", b64("a"), b64("b"), b64("c"), TokenSuccess, "0.1"),
		"version":       recordLine("v2", "1", b64("a"), b64("b"), b64("c"), b64(""), TokenSuccess, "0.1"),
		"index zero":    recordLine(RecordVersion, "0", b64("a"), b64("b"), b64("c"), b64(""), TokenSuccess, "0.1"),
		"index text":    recordLine(RecordVersion, "x", b64("a"), b64("b"), b64("c"), b64(""), TokenSuccess, "0.1"),
		"bad base64":    recordLine(RecordVersion, "1", "!!not-b64!!", b64("b"), b64("c"), b64(""), TokenSuccess, "0.1"),
		"bad status":    recordLine(RecordVersion, "1", b64("a"), b64("b"), b64("c"), b64(""), "EXPLODED", "0.1"),
		"negative time": recordLine(RecordVersion, "1", b64("a"), b64("b"), b64("c"), b64(""), TokenSuccess, "-1"),
		"bad time":      recordLine(RecordVersion, "1", b64("a"), b64("b"), b64("c"), b64(""), TokenSuccess, "fast"),
	}
	for name, line := range cases {
		st := ParseStream(MarkerResultsStart + "\n" + line + "\n" + MarkerResultsEnd)
		if !st.Malformed {
			t.Fatalf("%s: malformed record accepted: %q", name, line)
		}
		if len(st.Records) != 0 {
			t.Fatalf("%s: malformed record decoded anyway", name)
		}
	}
}

func TestParseStreamIgnoresProgramOutput(t *testing.T) {
	st := ParseStream("hello world\nTEST_CASE_RESULTish line\n42\n")
	if st.Malformed || st.Started || st.Ended || len(st.Records) != 0 || st.CompileError {
		t.Fatalf("non-directive output affected the stream: %+v", st)
	}
}
