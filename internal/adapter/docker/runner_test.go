package docker

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/sandbox"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func TestParseMemUsage(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"123.4MiB / 256MiB\n", 123.4},
		{"2GiB / 4GiB", 2048},
		{"512KiB / 256MiB", 0.5},
		{"0B / 256MiB", 0},
	}
	for _, c := range cases {
		got, err := parseMemUsage(c.in)
		if err != nil {
			t.Fatalf("parseMemUsage(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("parseMemUsage(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "123.4MiB", "12 parsecs / 256MiB"} {
		if _, err := parseMemUsage(bad); err == nil {
			t.Fatalf("parseMemUsage(%q) accepted garbage", bad)
		}
	}
}

func TestMaterialize(t *testing.T) {
	runner := NewRunner(&config.SandboxConfig{}, nopLogger{})
	workDir := t.TempDir()

	sub := domain.NewSubmission("u1", "print(input())", "python", 2, 256, []domain.TestCase{
		{Input: "hello\n", ExpectedOutput: "hello\n"},
		{Input: "world\n", ExpectedOutput: "world\n"},
	})
	profile := domain.LanguageProfile{
		Language:   "python",
		SourceFile: "main.py",
		RunCmd:     "python3 main.py",
	}

	if err := runner.materialize(workDir, sub, profile, "#!/bin/sh\n"); err != nil {
		t.Fatalf("materialize returned error: %v", err)
	}

	source, err := os.ReadFile(filepath.Join(workDir, "main.py"))
	if err != nil {
		t.Fatalf("source not written: %v", err)
	}
	if string(source) != sub.Code {
		t.Fatalf("source mismatch: %q", source)
	}

	for i := 1; i <= 2; i++ {
		for _, ext := range []string{".in", ".exp"} {
			path := filepath.Join(workDir, sandbox.TestsDir, strconv.Itoa(i)+ext)
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("test file %s not written: %v", path, err)
			}
		}
	}

	info, err := os.Stat(filepath.Join(workDir, sandbox.DriverFile))
	if err != nil {
		t.Fatalf("driver not written: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("driver not executable: %v", info.Mode())
	}
}
