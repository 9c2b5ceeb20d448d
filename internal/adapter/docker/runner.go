// package docker runs submissions inside a locally provisioned docker
// sandbox: one container per submission, all test cases batched through the
// generated driver script.
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/sandbox"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

var _ secondary.SandboxRunner = (*Runner)(nil)

// Runner is the local sandbox runner. It owns the ephemeral working
// directory for the duration of one invocation; no other component touches
// the filesystem.
type Runner struct {
	cfg    *config.SandboxConfig
	logger primary.Logger
}

func NewRunner(cfg *config.SandboxConfig, logger primary.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger,
	}
}

// invocation captures everything one sandbox run produced.
type invocation struct {
	stdout   string
	stderr   string
	exitCode int
	memoryMB float64
}

// RunBatch executes the submission in one container and returns one result
// per test case. An error wrapping errs.Infrastructure means the container
// could not be driven at all; the caller converts that into a uniform
// Internal Error table.
func (r *Runner) RunBatch(ctx context.Context, sub *domain.Submission, profile domain.LanguageProfile) ([]domain.ExecutionResult, error) {
	script, err := sandbox.BuildDriverScript(profile, sub.TimeLimit, len(sub.TestCases), r.cfg.OutputLimitBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.Infrastructure, err)
	}

	inv, err := r.invoke(ctx, sub, profile, script)
	if err != nil {
		return nil, err
	}

	st := sandbox.ParseStream(inv.stdout)
	results := sandbox.Assemble(sub, st, inv.stderr)
	for i := range results {
		if results[i].MemoryUsed == 0 {
			results[i].MemoryUsed = inv.memoryMB
		}
	}
	return results, nil
}

// invoke materializes the working directory, runs the container under the
// external watchdog and captures its combined output. The directory is
// removed on every exit path.
func (r *Runner) invoke(ctx context.Context, sub *domain.Submission, profile domain.LanguageProfile, script string) (*invocation, error) {
	execID := uuid.New().String()
	workDir := filepath.Join(r.cfg.WorkRoot, execID)

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create work dir: %v", errs.Infrastructure, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			r.logger.Error("Failed to remove sandbox dir", "dir", workDir, "error", err)
		}
	}()

	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve work dir: %v", errs.Infrastructure, err)
	}

	if err := r.materialize(workDir, sub, profile, script); err != nil {
		return nil, err
	}

	// External watchdog: the container gets the per-test budget for every
	// test plus a fixed compilation allowance, whatever its own limits say.
	deadline := time.Duration(sub.TimeLimit*len(sub.TestCases))*time.Second + r.cfg.CompileAllowance
	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	containerName := "judgecore_" + execID
	args := []string{
		"run", "--rm",
		"--name", containerName,
		"--network=none",
		fmt.Sprintf("--memory=%dm", sub.MemoryLimit),
		fmt.Sprintf("--memory-swap=%dm", sub.MemoryLimit),
		"--cpus=1",
		fmt.Sprintf("--pids-limit=%d", r.cfg.PidsLimit),
		"--ulimit", fmt.Sprintf("nofile=%d:%d", r.cfg.NoFileLimit, r.cfg.NoFileLimit),
		"-v", absDir + ":" + sandbox.MountPoint,
		profile.Image,
		"sh", sandbox.MountPoint + "/" + sandbox.DriverFile,
	}

	cmd := exec.CommandContext(runCtx, "docker", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	memCh := r.sampleMemory(runCtx, containerName)

	runErr := cmd.Run()

	if runCtx.Err() != nil {
		// The watchdog fired: CommandContext only kills the docker client,
		// the container itself needs an explicit kill.
		if killErr := exec.Command("docker", "kill", containerName).Run(); killErr != nil {
			r.logger.Warn("Failed to kill container", "container", containerName, "error", killErr)
		}
	}

	inv := &invocation{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		memoryMB: <-memCh,
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// The container ran but exited non-zero; the protocol stream
			// decides what that means.
			inv.exitCode = exitErr.ExitCode()
			return inv, nil
		}
		return nil, fmt.Errorf("%w: start sandbox: %v", errs.Infrastructure, runErr)
	}
	return inv, nil
}

// materialize writes the submission source, the per-test input/expected
// files and the driver script into the working directory.
func (r *Runner) materialize(workDir string, sub *domain.Submission, profile domain.LanguageProfile, script string) error {
	if err := os.WriteFile(filepath.Join(workDir, profile.SourceFile), []byte(sub.Code), 0o644); err != nil {
		return fmt.Errorf("%w: write source: %v", errs.Infrastructure, err)
	}

	testsDir := filepath.Join(workDir, sandbox.TestsDir)
	if err := os.MkdirAll(testsDir, 0o755); err != nil {
		return fmt.Errorf("%w: create tests dir: %v", errs.Infrastructure, err)
	}
	for i, tc := range sub.TestCases {
		name := strconv.Itoa(i + 1)
		if err := os.WriteFile(filepath.Join(testsDir, name+".in"), []byte(tc.Input), 0o644); err != nil {
			return fmt.Errorf("%w: write test input: %v", errs.Infrastructure, err)
		}
		if err := os.WriteFile(filepath.Join(testsDir, name+".exp"), []byte(tc.ExpectedOutput), 0o644); err != nil {
			return fmt.Errorf("%w: write expected output: %v", errs.Infrastructure, err)
		}
	}

	if err := os.WriteFile(filepath.Join(workDir, sandbox.DriverFile), []byte(script), 0o755); err != nil {
		return fmt.Errorf("%w: write driver: %v", errs.Infrastructure, err)
	}
	return nil
}

// sampleMemory polls docker stats while the container runs and reports the
// peak usage seen, in megabytes. Best-effort: zero when nothing was sampled.
func (r *Runner) sampleMemory(ctx context.Context, containerName string) <-chan float64 {
	out := make(chan float64, 1)
	go func() {
		var peak float64
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		defer func() { out <- peak }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mb, err := readContainerMemory(containerName)
				if err != nil {
					// The container is usually gone already.
					return
				}
				if mb > peak {
					peak = mb
				}
			}
		}
	}()
	return out
}

func readContainerMemory(containerName string) (float64, error) {
	cmd := exec.Command("docker", "stats", containerName, "--no-stream", "--format", "{{.MemUsage}}")
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return parseMemUsage(string(output))
}

// parseMemUsage parses `docker stats` output of the form "123.4MiB / 256MiB"
// into megabytes.
func parseMemUsage(output string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(output), " / ")
	if len(parts) != 2 {
		return 0, fmt.Errorf("unexpected mem usage format %q", output)
	}
	used := strings.TrimSpace(parts[0])
	switch {
	case strings.HasSuffix(used, "GiB"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(used, "GiB"), 64)
		return v * 1024, err
	case strings.HasSuffix(used, "MiB"):
		return strconv.ParseFloat(strings.TrimSuffix(used, "MiB"), 64)
	case strings.HasSuffix(used, "KiB"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(used, "KiB"), 64)
		return v / 1024, err
	case strings.HasSuffix(used, "B"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(used, "B"), 64)
		return v / (1024 * 1024), err
	}
	return 0, fmt.Errorf("unexpected mem usage unit %q", used)
}
