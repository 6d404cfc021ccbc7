// Package backend is the HTTP client for the deployed scoring model service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/types"
)

const backendName = "scoring-backend"

// Client talks to the model service: /predict, /extract-skills and /model-status.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *zap.Logger
}

// NewClient creates a reusable HTTP client. timeout bounds every request.
func NewClient(endpoint, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		log:      logger.Component(log, "backend"),
	}
}

// Name identifies the backend in logs and cache keys.
func (c *Client) Name() string {
	return "remote"
}

// Predict returns the model's raw match probability for a résumé and a job.
// The value is not clamped here.
func (c *Client) Predict(ctx context.Context, resume, job string) (float64, error) {
	payload := map[string]any{
		"resume":          resume,
		"job_description": job,
	}

	var resp struct {
		Probability *float64 `json:"probability"`
	}
	if err := c.post(ctx, "/predict", payload, &resp); err != nil {
		return 0, err
	}
	if resp.Probability == nil {
		return 0, &types.MalformedResponseError{Backend: backendName, Message: "prediction has no probability"}
	}
	return *resp.Probability, nil
}

// ExtractSkills asks the model service for the skills in text. Both a bare list and
// a {"skills": [...]} object are accepted.
func (c *Client) ExtractSkills(ctx context.Context, text string) ([]types.Skill, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/extract-skills", map[string]any{"jobDescription": text}, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var skills []types.Skill
		if err := json.Unmarshal(trimmed, &skills); err != nil {
			return nil, &types.MalformedResponseError{Backend: backendName, Message: "invalid skill list", Cause: err}
		}
		return skills, nil
	}

	var wrapped struct {
		Skills []types.Skill `json:"skills"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, &types.MalformedResponseError{Backend: backendName, Message: "invalid skills object", Cause: err}
	}
	return wrapped.Skills, nil
}

// Status is the model service's self-reported readiness.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Status fetches /model-status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.do(ctx, http.MethodGet, "/model-status", nil, &s)
	return s, err
}

// Probe succeeds only when the service reports itself ready.
func (c *Client) Probe(ctx context.Context) error {
	s, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if s.Status != "ready" {
		return &types.BackendUnavailableError{Backend: backendName, Message: fmt.Sprintf("model status %q: %s", s.Status, s.Message)}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	return c.do(ctx, http.MethodPost, path, payload, v)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, v any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("path", path), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return &types.BackendUnavailableError{Backend: backendName, Message: "request to " + path + " failed", Cause: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Debug("close response body", zap.Error(closeErr))
		}
	}()

	c.log.Debug("request finished", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return &types.BackendUnavailableError{Backend: backendName, Message: fmt.Sprintf("unexpected status %s from %s", resp.Status, path)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &types.BackendUnavailableError{Backend: backendName, Message: "reading " + path + " response", Cause: err}
		}
		return &types.MalformedResponseError{Backend: backendName, Message: "decode " + path + " response", Cause: err}
	}
	return nil
}
