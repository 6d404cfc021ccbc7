package skills

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// LLMBackend extracts skills with a generative model.
type LLMBackend struct {
	client llm.Client
	log    *zap.Logger
}

// NewLLMBackend builds a backend over client.
func NewLLMBackend(client llm.Client, log *zap.Logger) *LLMBackend {
	return &LLMBackend{client: client, log: logger.Component(log, "skills.llm")}
}

// Name identifies the backend in logs and cache keys.
func (b *LLMBackend) Name() string {
	return "llm:" + b.client.GetModel(llm.TierLite)
}

// ExtractSkills asks the model for a skills object and validates it against the skills schema.
func (b *LLMBackend) ExtractSkills(ctx context.Context, text string) ([]types.Skill, error) {
	prompt, err := prompts.Render(prompts.ExtractSkills, map[string]string{"Text": text})
	if err != nil {
		return nil, err
	}

	resp, err := b.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &types.BackendUnavailableError{Backend: "llm", Message: "skill extraction call failed", Cause: err}
	}

	resp = llm.CleanJSONBlock(resp)
	if err := schemas.Validate(schemas.SkillsSchema, resp); err != nil {
		b.log.Debug("rejected model output", zap.String("response", logger.TruncateForLog(resp, 500)))
		return nil, &types.MalformedResponseError{Backend: "llm", Message: "skills output does not match schema", Cause: err}
	}

	var out struct {
		Skills []types.Skill `json:"skills"`
	}
	if err := json.Unmarshal([]byte(resp), &out); err != nil {
		return nil, &types.MalformedResponseError{Backend: "llm", Message: "skills output is not valid JSON", Cause: err}
	}
	return out.Skills, nil
}
