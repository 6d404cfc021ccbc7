package assembly

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/cache"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// DraftRequest is the input to a DraftGenerator.
type DraftRequest struct {
	Resume  string
	Job     string
	Summary string
	Matched []string
	Missing []string
}

// Draft is generated résumé content.
type Draft struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights,omitempty"`
}

// DraftGenerator writes the tailored summary.
type DraftGenerator interface {
	Draft(ctx context.Context, req DraftRequest) (Draft, error)
}

// maxSummarySkills caps how many matched skills the template names.
const maxSummarySkills = 3

// TemplateGenerator augments the existing summary with the top matched skills.
// It never fails and is deterministic.
type TemplateGenerator struct{}

// Draft implements DraftGenerator.
func (TemplateGenerator) Draft(_ context.Context, req DraftRequest) (Draft, error) {
	summary := strings.TrimSpace(req.Summary)
	if len(req.Matched) == 0 {
		return Draft{Summary: summary}, nil
	}

	top := req.Matched
	if len(top) > maxSummarySkills {
		top = top[:maxSummarySkills]
	}
	line := "Key skills for this role: " + strings.Join(top, ", ") + "."
	if summary == "" {
		return Draft{Summary: line}, nil
	}
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return Draft{Summary: summary + " " + line}, nil
}

// LLMGenerator drafts the summary with a generative model.
type LLMGenerator struct {
	client llm.Client
	log    *zap.Logger
}

// NewLLMGenerator builds a generator over client.
func NewLLMGenerator(client llm.Client, log *zap.Logger) *LLMGenerator {
	return &LLMGenerator{client: client, log: logger.Component(log, "assembly.llm")}
}

// Draft implements DraftGenerator.
func (g *LLMGenerator) Draft(ctx context.Context, req DraftRequest) (Draft, error) {
	prompt, err := prompts.Render(prompts.DraftSummary, map[string]string{
		"Matched": joinOrNone(req.Matched),
		"Missing": joinOrNone(req.Missing),
		"Job":     req.Job,
		"Resume":  req.Resume,
	})
	if err != nil {
		return Draft{}, err
	}

	resp, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return Draft{}, &types.BackendUnavailableError{Backend: "llm", Message: "draft call failed", Cause: err}
	}

	resp = llm.CleanJSONBlock(resp)
	if err := schemas.Validate(schemas.DraftSchema, resp); err != nil {
		g.log.Debug("rejected model output", zap.String("response", logger.TruncateForLog(resp, 500)))
		return Draft{}, &types.MalformedResponseError{Backend: "llm", Message: "draft does not match schema", Cause: err}
	}

	var d Draft
	if err := json.Unmarshal([]byte(resp), &d); err != nil {
		return Draft{}, &types.MalformedResponseError{Backend: "llm", Message: "draft is not valid JSON", Cause: err}
	}
	d.Summary = strings.TrimSpace(d.Summary)
	return d, nil
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// Store is the byte cache used by CachedGenerator.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// CachedGenerator memoizes drafts so identical requests get identical content.
type CachedGenerator struct {
	next  DraftGenerator
	store Store
}

// NewCachedGenerator wraps next with store.
func NewCachedGenerator(next DraftGenerator, store Store) *CachedGenerator {
	return &CachedGenerator{next: next, store: store}
}

// Draft implements DraftGenerator.
func (c *CachedGenerator) Draft(ctx context.Context, req DraftRequest) (Draft, error) {
	key := cache.Key("draft", req.Resume, req.Job, req.Summary,
		strings.Join(req.Matched, ","), strings.Join(req.Missing, ","))

	if data, ok := c.store.Get(ctx, key); ok {
		var d Draft
		if json.Unmarshal(data, &d) == nil {
			return d, nil
		}
	}

	d, err := c.next.Draft(ctx, req)
	if err != nil {
		return Draft{}, err
	}

	data, err := json.Marshal(d)
	if err != nil {
		return Draft{}, fmt.Errorf("failed to encode draft: %w", err)
	}
	c.store.Set(ctx, key, data)
	return d, nil
}
