package sandbox

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// MountPoint is where the ephemeral host directory is mounted inside the
// sandbox. The driver script, the submission source and the test files all
// live under it.
const MountPoint = "/box"

// TestsDir is the directory (relative to MountPoint) holding the per-test
// input (.in) and expected output (.exp) files written by the runner.
const TestsDir = "tests"

// DriverFile is the name of the generated driver script.
const DriverFile = "run.sh"

// safeToken limits what may be interpolated into the driver script. Profile
// fields come from the registry, not from the submission, but the builder
// still rejects anything that could terminate or extend a shell word.
var safeToken = regexp.MustCompile(`^[A-Za-z0-9 ./_+=:@-]+$`)

// BuildDriverScript emits the POSIX sh driver that, inside the sandbox,
// compiles the submission once (when the profile requires it), runs it
// against every test case under a per-test timeout and prints the result
// line protocol on stdout. Submission code and test payloads reach the
// sandbox as files, never as script text.
func BuildDriverScript(profile domain.LanguageProfile, timeLimitSec, numTests, outputLimit int) (string, error) {
	if timeLimitSec <= 0 {
		return "", fmt.Errorf("driver: time limit must be positive, got %d", timeLimitSec)
	}
	if numTests <= 0 {
		return "", fmt.Errorf("driver: test count must be positive, got %d", numTests)
	}
	if outputLimit <= 0 {
		outputLimit = 64 * 1024
	}
	// SourceFile doubles as a filename on the shared mount; ExecFile never
	// reaches the script text and is not checked.
	tokens := []string{profile.SourceFile, profile.RunCmd}
	if profile.Compiled() {
		tokens = append(tokens, profile.CompileCmd)
	}
	for _, tok := range tokens {
		if !safeToken.MatchString(tok) {
			return "", fmt.Errorf("driver: unsafe profile token %q", tok)
		}
	}

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("set -u\n")
	fmt.Fprintf(&sb, "cd %s\n\n", MountPoint)

	// emit_b64 caps every captured stream before encoding so a single
	// directive line can never grow without bound.
	fmt.Fprintf(&sb, "emit_b64() {\n    head -c %d \"$1\" | base64 | tr -d '\\n'\n}\n\n", outputLimit)

	if profile.Compiled() {
		fmt.Fprintf(&sb, "%s > compile.log 2>&1\n", profile.CompileCmd)
		sb.WriteString("if [ $? -ne 0 ]; then\n")
		// Exit 0 on a compile failure: a non-zero exit here would be
		// indistinguishable from an infrastructure fault.
		fmt.Fprintf(&sb, "    echo \"%s$(emit_b64 compile.log)\"\n", MarkerCompilationError)
		sb.WriteString("    exit 0\nfi\n\n")
	}

	fmt.Fprintf(&sb, "echo \"%s\"\n", MarkerResultsStart)
	sb.WriteString("i=1\n")
	fmt.Fprintf(&sb, "while [ \"$i\" -le %d ]; do\n", numTests)
	// %N requires a coreutils date. Busybox passes it through literally and
	// the elapsed value degrades to whole seconds; the registry images all
	// ship coreutils.
	sb.WriteString("    start=$(date +%s.%N)\n")
	fmt.Fprintf(&sb, "    timeout %d sh -c \"%s < %s/$i.in > %s/$i.out 2> %s/$i.err\"\n",
		timeLimitSec, profile.RunCmd, TestsDir, TestsDir, TestsDir)
	sb.WriteString("    code=$?\n")
	sb.WriteString("    end=$(date +%s.%N)\n")
	// awk's %.3f keeps the leading zero, so the parser never sees a bare
	// decimal point.
	sb.WriteString("    elapsed=$(awk -v a=\"$start\" -v b=\"$end\" 'BEGIN { printf \"%.3f\", b - a }')\n")
	fmt.Fprintf(&sb, "    status=%s\n", TokenSuccess)
	sb.WriteString("    if [ \"$code\" -eq 124 ]; then\n")
	fmt.Fprintf(&sb, "        status=%s\n", TokenTimeLimitExceeded)
	sb.WriteString("    elif [ \"$code\" -ne 0 ]; then\n")
	fmt.Fprintf(&sb, "        status=%s\n", TokenRuntimeError)
	sb.WriteString("    fi\n")
	fmt.Fprintf(&sb,
		"    echo \"%s%s|$i|$(emit_b64 %s/$i.in)|$(emit_b64 %s/$i.exp)|$(emit_b64 %s/$i.out)|$(emit_b64 %s/$i.err)|$status|$elapsed\"\n",
		MarkerTestCaseResult, RecordVersion, TestsDir, TestsDir, TestsDir, TestsDir)
	sb.WriteString("    i=$((i + 1))\ndone\n")
	fmt.Fprintf(&sb, "echo \"%s\"\n", MarkerResultsEnd)

	return sb.String(), nil
}
