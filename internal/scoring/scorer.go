// Package scoring turns a résumé/job pair into a thresholded MatchResult.
// The model path is preferred; when the model is unreachable the scorer falls back
// to the Jaccard overlap of the two texts' skill sets.
package scoring

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Predictor returns a raw match probability for a résumé and a job.
type Predictor interface {
	Predict(ctx context.Context, resume, job string) (float64, error)
}

// Gate reports whether the predictor may be called right now. A gate that also
// implements skills.FailureReporter is told about unreachable-backend errors.
type Gate interface {
	IsReady(ctx context.Context) bool
}

// Scorer produces MatchResults. It is safe for concurrent use.
type Scorer struct {
	predictor Predictor
	gate      Gate
	extractor *skills.Extractor
	threshold float64
	log       *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithThreshold sets the Match threshold.
func WithThreshold(threshold float64) Option {
	return func(s *Scorer) {
		s.threshold = threshold
	}
}

// WithPredictor sets the model path. gate may be nil.
func WithPredictor(p Predictor, gate Gate) Option {
	return func(s *Scorer) {
		s.predictor = p
		s.gate = gate
	}
}

// NewScorer builds a scorer whose fallback extracts skills with extractor.
func NewScorer(extractor *skills.Extractor, log *zap.Logger, opts ...Option) *Scorer {
	s := &Scorer{
		extractor: extractor,
		threshold: types.DefaultThreshold,
		log:       logger.Component(log, "scoring"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the configured threshold.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score rates a résumé against a job description.
func (s *Scorer) Score(ctx context.Context, resume, job types.TextBlob) (types.MatchResult, error) {
	return s.ScoreAgainst(ctx, resume, job, nil)
}

// ScoreSkills rates a résumé against a job given only as a skill list.
// The model sees the skill names as the job text; the fallback uses the list directly.
func (s *Scorer) ScoreSkills(ctx context.Context, resume types.TextBlob, jobSkills []types.Skill) (types.MatchResult, error) {
	normalized := parsing.NormalizeSkills(jobSkills)
	if len(normalized) == 0 {
		return types.MatchResult{}, &types.InputError{Field: "jobSkills", Message: "at least one job skill is required"}
	}
	job := types.TextBlob(strings.Join(normalized.Names(), ", "))
	return s.ScoreAgainst(ctx, resume, job, normalized)
}

// ScoreAgainst is Score with the job's skills already known. A nil jobSkills is
// extracted from job when the fallback needs it.
func (s *Scorer) ScoreAgainst(ctx context.Context, resume, job types.TextBlob, jobSkills types.SkillSet) (types.MatchResult, error) {
	if parsing.IsBlank(resume) {
		return types.MatchResult{}, &types.InputError{Field: "resume", Message: "résumé text is required"}
	}
	if parsing.IsBlank(job) {
		return types.MatchResult{}, &types.InputError{Field: "job", Message: "job text is required"}
	}

	if result, ok, err := s.scoreWithModel(ctx, resume, job); ok || err != nil {
		return result, err
	}
	return s.fallback(ctx, resume, job, jobSkills)
}

// scoreWithModel reports ok=false when the caller should fall back.
func (s *Scorer) scoreWithModel(ctx context.Context, resume, job types.TextBlob) (types.MatchResult, bool, error) {
	if s.predictor == nil {
		return types.MatchResult{}, false, nil
	}
	if s.gate != nil && !s.gate.IsReady(ctx) {
		s.log.Debug("model not ready, using fallback")
		return types.MatchResult{}, false, nil
	}

	raw, err := s.predictor.Predict(ctx, resume.String(), job.String())
	if err != nil {
		if types.IsInputError(err) {
			return types.MatchResult{}, false, err
		}
		s.log.Warn("model prediction failed, using fallback", zap.Error(err))
		skills.ReportUnavailable(ctx, s.gate, err)
		return types.MatchResult{}, false, nil
	}

	result := types.NewMatchResult(raw, s.threshold, types.SourceModel)
	if result.Clamped {
		s.log.Warn("model score out of range, clamped",
			zap.Float64("raw", raw),
			zap.Float64("score", result.Score),
		)
	}
	return result, true, nil
}

func (s *Scorer) fallback(ctx context.Context, resume, job types.TextBlob, jobSkills types.SkillSet) (types.MatchResult, error) {
	if s.extractor == nil {
		return types.MatchResult{}, &types.BackendUnavailableError{Backend: "scoring", Message: "model unavailable and no fallback configured"}
	}

	resumeSkills, err := s.extractor.Extract(ctx, resume)
	if err != nil {
		return types.MatchResult{}, &types.BackendUnavailableError{Backend: "scoring", Message: "model unavailable and fallback extraction failed", Cause: err}
	}
	if jobSkills == nil {
		jobSkills, err = s.extractor.Extract(ctx, job)
		if err != nil {
			return types.MatchResult{}, &types.BackendUnavailableError{Backend: "scoring", Message: "model unavailable and fallback extraction failed", Cause: err}
		}
	}

	score := Jaccard(resumeSkills, jobSkills)
	s.log.Debug("fallback score",
		zap.Int("resume_skills", len(resumeSkills)),
		zap.Int("job_skills", len(jobSkills)),
		zap.Float64("score", score),
	)
	return types.NewMatchResult(score, s.threshold, types.SourceFallback), nil
}

// Jaccard returns |a ∩ b| / |a ∪ b| over skill keys, 0 when both are empty.
func Jaccard(a, b types.SkillSet) float64 {
	ka, kb := a.Keys(), b.Keys()

	union := len(ka)
	shared := 0
	for k := range kb {
		if _, ok := ka[k]; ok {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
