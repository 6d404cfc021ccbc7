package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// LLMPredictor asks a generative model for a match probability.
type LLMPredictor struct {
	client llm.Client
	log    *zap.Logger
}

// NewLLMPredictor builds a predictor over client.
func NewLLMPredictor(client llm.Client, log *zap.Logger) *LLMPredictor {
	return &LLMPredictor{client: client, log: logger.Component(log, "scoring.llm")}
}

// Predict returns the raw probability from the model. Range checks are left to the Scorer.
func (p *LLMPredictor) Predict(ctx context.Context, resume, job string) (float64, error) {
	prompt, err := prompts.Render(prompts.PredictMatch, map[string]string{
		"Job":    job,
		"Resume": resume,
	})
	if err != nil {
		return 0, err
	}

	resp, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return 0, &types.BackendUnavailableError{Backend: "llm", Message: "prediction call failed", Cause: err}
	}

	resp = llm.CleanJSONBlock(resp)
	if err := schemas.Validate(schemas.PredictionSchema, resp); err != nil {
		p.log.Debug("rejected model output", zap.String("response", logger.TruncateForLog(resp, 300)))
		return 0, &types.MalformedResponseError{Backend: "llm", Message: "prediction does not match schema", Cause: err}
	}

	var out struct {
		Probability any `json:"probability"`
	}
	if err := json.Unmarshal([]byte(resp), &out); err != nil {
		return 0, &types.MalformedResponseError{Backend: "llm", Message: "prediction is not valid JSON", Cause: err}
	}

	v, err := coerceFloat(out.Probability)
	if err != nil {
		return 0, &types.MalformedResponseError{Backend: "llm", Message: "unusable probability", Cause: err}
	}
	return v, nil
}

// coerceFloat accepts numbers and numeric strings, including percentages.
func coerceFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		percent := strings.HasSuffix(s, "%")
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", x, err)
		}
		f = parsed
		if percent {
			f /= 100
		}
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return f, nil
}
