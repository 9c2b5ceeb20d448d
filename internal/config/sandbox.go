package config

import (
	"os"
	"strconv"
	"time"
)

// RunnerMode selects the sandbox runner implementation wired at startup.
type RunnerMode string

const (
	RunnerModeLocal  RunnerMode = "local"
	RunnerModeRemote RunnerMode = "remote"
)

type SandboxConfig struct {
	Mode             RunnerMode
	WorkRoot         string        // host directory holding the ephemeral invocation dirs
	CompileAllowance time.Duration // extra wall time granted on top of timeLimit x nTests
	PidsLimit        int
	NoFileLimit      int
	OutputLimitBytes int

	// Remote runner settings.
	RemoteURL      string
	RemoteTimeout  time.Duration
	ResultCacheTTL time.Duration
}

func NewSandboxConfig() *SandboxConfig {
	mode := RunnerModeLocal
	if os.Getenv("SANDBOX_RUNNER") == string(RunnerModeRemote) {
		mode = RunnerModeRemote
	}
	allowanceSec, err := strconv.Atoi(os.Getenv("SANDBOX_COMPILE_ALLOWANCE_SEC"))
	if err != nil || allowanceSec <= 0 {
		allowanceSec = 20
	}
	ttlSec, err := strconv.Atoi(os.Getenv("RESULT_CACHE_TTL_SEC"))
	if err != nil || ttlSec <= 0 {
		ttlSec = 600
	}
	return &SandboxConfig{
		Mode:             mode,
		WorkRoot:         getEnv("SANDBOX_WORK_ROOT", "sandbox"),
		CompileAllowance: time.Duration(allowanceSec) * time.Second,
		PidsLimit:        64,
		NoFileLimit:      64,
		OutputLimitBytes: 64 * 1024,
		RemoteURL:        getEnv("REMOTE_RUNNER_URL", "http://localhost:9000"),
		RemoteTimeout:    30 * time.Second,
		ResultCacheTTL:   time.Duration(ttlSec) * time.Second,
	}
}
