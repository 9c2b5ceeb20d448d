package config

import (
	"os"
	"strconv"
	"time"
)

type DispatchConfig struct {
	ClaimInterval time.Duration
	ClaimBatch    int
	MaxConcurrent int
}

func NewDispatchConfig() *DispatchConfig {
	intervalSec, err := strconv.Atoi(os.Getenv("DISPATCH_CLAIM_INTERVAL_SEC"))
	if err != nil || intervalSec <= 0 {
		intervalSec = 2
	}
	batch, err := strconv.Atoi(os.Getenv("DISPATCH_CLAIM_BATCH"))
	if err != nil || batch <= 0 {
		batch = 10
	}
	concurrent, err := strconv.Atoi(os.Getenv("DISPATCH_MAX_CONCURRENT"))
	if err != nil || concurrent <= 0 {
		concurrent = 4
	}
	return &DispatchConfig{
		ClaimInterval: time.Duration(intervalSec) * time.Second,
		ClaimBatch:    batch,
		MaxConcurrent: concurrent,
	}
}
