// package remote drives a remote execution service through its
// request/response interface. It is an alternate sandbox runner behind the
// same port, not a second engine: classification and result assembly are
// shared with the local runner.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"context"

	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/sandbox"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

var _ secondary.SandboxRunner = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     primary.Logger
}

func NewClient(cfg *config.SandboxConfig, logger primary.Logger) *Client {
	return &Client{
		baseURL: cfg.RemoteURL,
		httpClient: &http.Client{
			Timeout: cfg.RemoteTimeout,
		},
		logger: logger,
	}
}

type executeRequest struct {
	Language    string `json:"language"`
	Code        string `json:"code"`
	Stdin       string `json:"stdin"`
	TimeLimit   int    `json:"time_limit"`
	MemoryLimit int    `json:"memory_limit"`
}

type executeResponse struct {
	Output string  `json:"output"`
	Stderr string  `json:"stderr"`
	Time   float64 `json:"time"`
	Memory float64 `json:"memory"`
	Status string  `json:"status"`
}

// RunBatch submits every test case to the remote service in input order.
// The remote service compiles per request, so a compilation failure shows up
// on the first test and collapses the whole batch, matching the local
// driver's short-circuit.
func (c *Client) RunBatch(ctx context.Context, sub *domain.Submission, profile domain.LanguageProfile) ([]domain.ExecutionResult, error) {
	results := make([]domain.ExecutionResult, 0, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		resp, err := c.execute(ctx, sub, tc)
		if err != nil {
			if i == 0 {
				// Nothing ran at all: the fault is the service's, not the
				// submission's.
				return nil, fmt.Errorf("%w: remote runner: %v", errs.Infrastructure, err)
			}
			c.logger.Error("Remote execution failed mid-batch", "testCase", i+1, "error", err)
			for ; i < len(sub.TestCases); i++ {
				results = append(results, domain.ExecutionResult{
					TestCaseNumber: i + 1,
					Input:          sub.TestCases[i].Input,
					ExpectedOutput: sub.TestCases[i].ExpectedOutput,
					Status:         domain.StatusInternalError,
					ErrorMessage:   "remote execution service unavailable",
				})
			}
			return results, nil
		}

		if resp.Status == sandbox.TokenCompilationError {
			all := make([]domain.ExecutionResult, 0, len(sub.TestCases))
			for j, each := range sub.TestCases {
				all = append(all, domain.ExecutionResult{
					TestCaseNumber: j + 1,
					Input:          each.Input,
					ExpectedOutput: each.ExpectedOutput,
					Status:         domain.StatusCompilationError,
					ErrorMessage:   resp.Stderr,
				})
			}
			return all, nil
		}

		rec := sandbox.Record{
			Index:  i + 1,
			Output: resp.Output,
			Stderr: resp.Stderr,
			Status: resp.Status,
			Time:   resp.Time,
		}
		res := sandbox.Classify(rec, i+1, tc)
		if res.MemoryUsed == 0 {
			res.MemoryUsed = resp.Memory
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Client) execute(ctx context.Context, sub *domain.Submission, tc domain.TestCase) (*executeResponse, error) {
	body, err := json.Marshal(executeRequest{
		Language:    sub.Language,
		Code:        sub.Code,
		Stdin:       tc.Input,
		TimeLimit:   sub.TimeLimit,
		MemoryLimit: sub.MemoryLimit,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return nil, fmt.Errorf("remote runner returned %d: %s", httpResp.StatusCode, string(payload))
	}

	var resp executeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode remote response: %w", err)
	}
	return &resp, nil
}
