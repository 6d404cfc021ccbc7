// Package ranking orders candidates for a job by match score and historical success.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Failure steps reported on ranked candidates.
const (
	StepJobSkills       = "job_skills"
	StepMatch           = "match"
	StepCandidateSkills = "candidate_skills"
	StepGaps            = "gaps"
	StepSuccessFactor   = "success_factor"
)

// DefaultConcurrency bounds parallel candidate scoring.
const DefaultConcurrency = 8

// MatchScorer scores one résumé against a job whose skills may already be known.
type MatchScorer interface {
	ScoreAgainst(ctx context.Context, resume, job types.TextBlob, jobSkills types.SkillSet) (types.MatchResult, error)
}

// SkillExtractor extracts a skill set from text.
type SkillExtractor interface {
	Extract(ctx context.Context, text types.TextBlob) (types.SkillSet, error)
}

// GapAnalyzer diffs required and possessed skills.
type GapAnalyzer interface {
	Analyze(required, possessed []types.Skill) []types.SkillGap
}

// SuccessPredictor returns a historical-success factor in [0,1] for a candidate.
type SuccessPredictor interface {
	SuccessFactor(ctx context.Context, id types.CandidateID) (float64, error)
}

// Ranker ranks candidate batches. It is safe for concurrent use.
type Ranker struct {
	scorer      MatchScorer
	extractor   SkillExtractor
	analyzer    GapAnalyzer
	success     SuccessPredictor
	concurrency int
	log         *zap.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithSuccessPredictor enables the historical-success adjustment.
func WithSuccessPredictor(p SuccessPredictor) Option {
	return func(r *Ranker) {
		r.success = p
	}
}

// WithConcurrency bounds how many candidates are scored at once.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRanker builds a ranker.
func NewRanker(scorer MatchScorer, extractor SkillExtractor, analyzer GapAnalyzer, log *zap.Logger, opts ...Option) *Ranker {
	r := &Ranker{
		scorer:      scorer,
		extractor:   extractor,
		analyzer:    analyzer,
		concurrency: DefaultConcurrency,
		log:         logger.Component(log, "ranking"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every candidate against job and returns them ordered by composite score
// descending, ties broken by candidate id ascending. Per-candidate failures are
// reported on the candidate; only invalid input fails the whole call.
func (r *Ranker) Rank(ctx context.Context, job types.TextBlob, candidates []types.CandidateProfile) (types.RankedCandidates, error) {
	if err := validate(job, candidates); err != nil {
		return types.RankedCandidates{}, err
	}

	jobSkills, jobErr := r.extractor.Extract(ctx, job)
	if jobErr != nil {
		r.log.Warn("job skill extraction failed", zap.Error(jobErr))
		// the scorer retries extraction itself and reports its own failure
		jobSkills = nil
	}

	results := make([]types.RankedCandidate, len(candidates))

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i := range candidates {
		g.Go(func() error {
			results[i] = r.rankOne(ctx, job, jobSkills, jobErr, candidates[i])
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return Less(results[i], results[j])
	})

	r.log.Info("ranked candidates",
		zap.Int("candidates", len(results)),
		zap.Int("job_skills", len(jobSkills)),
	)
	return types.RankedCandidates{Ranked: results}, nil
}

// Less orders by composite score descending, then candidate id ascending.
func Less(a, b types.RankedCandidate) bool {
	if a.CompositeScore != b.CompositeScore {
		return a.CompositeScore > b.CompositeScore
	}
	return types.CompareCandidateIDs(a.CandidateID, b.CandidateID) < 0
}

func (r *Ranker) rankOne(ctx context.Context, job types.TextBlob, jobSkills types.SkillSet, jobErr error, c types.CandidateProfile) types.RankedCandidate {
	log := r.log.With(zap.String(logger.FieldCandidateID, string(c.ID)))
	out := types.RankedCandidate{
		CandidateID:   c.ID,
		SuccessFactor: 1.0,
		Gaps:          []types.SkillGap{},
	}
	resume := parsing.ResumeText(c)

	if jobErr != nil {
		out.Failures = append(out.Failures, types.NewFailure(StepJobSkills, jobErr))
	}

	match, err := r.scorer.ScoreAgainst(ctx, resume, job, jobSkills)
	if err != nil {
		log.Warn("scoring failed", zap.Error(err))
		out.Failures = append(out.Failures, types.NewFailure(StepMatch, err))
	} else {
		out.MatchResult = &match
	}

	possessed := parsing.NormalizeSkills(c.Skills)
	var skillsErr error
	if len(possessed) == 0 {
		possessed, skillsErr = r.extractor.Extract(ctx, resume)
		if skillsErr != nil {
			out.Failures = append(out.Failures, types.NewFailure(StepCandidateSkills, skillsErr))
		}
	}

	switch {
	case jobErr != nil:
		out.Failures = append(out.Failures, types.Failure{Step: StepGaps, Message: "job skills unavailable", Unavailable: true})
	case skillsErr != nil:
		out.Failures = append(out.Failures, types.Failure{Step: StepGaps, Message: "candidate skills unavailable", Unavailable: true})
	default:
		out.Gaps = r.analyzer.Analyze(jobSkills, possessed)
	}

	if r.success != nil {
		factor, err := r.success.SuccessFactor(ctx, c.ID)
		if err != nil {
			log.Debug("success factor unavailable, using 1.0", zap.Error(err))
			out.Failures = append(out.Failures, types.NewFailure(StepSuccessFactor, err))
		} else {
			out.SuccessFactor = types.ClampScore(factor)
		}
	}

	if out.MatchResult != nil {
		out.CompositeScore = out.MatchResult.Score * out.SuccessFactor
	}
	out.Notes = notes(out)
	return out
}

func validate(job types.TextBlob, candidates []types.CandidateProfile) error {
	if parsing.IsBlank(job) {
		return &types.InputError{Field: "jobDescription", Message: "job description is required"}
	}
	if len(candidates) == 0 {
		return &types.InputError{Field: "candidates", Message: "at least one candidate is required"}
	}
	seen := make(map[types.CandidateID]int, len(candidates))
	for i, c := range candidates {
		if strings.TrimSpace(string(c.ID)) == "" {
			return &types.InputError{Field: fmt.Sprintf("candidates[%d].id", i), Message: "candidate id is required"}
		}
		if j, dup := seen[c.ID]; dup {
			return &types.InputError{Field: fmt.Sprintf("candidates[%d].id", i), Message: fmt.Sprintf("duplicate of candidates[%d]", j)}
		}
		seen[c.ID] = i
	}
	return nil
}

// notes creates a brief explanation of the ranking.
func notes(rc types.RankedCandidate) string {
	var parts []string

	switch m := rc.MatchResult; {
	case m == nil:
		parts = append(parts, "Match score unavailable")
	case m.Score >= 0.8:
		parts = append(parts, fmt.Sprintf("Strong match (%.2f)", m.Score))
	case m.Score > m.Threshold:
		parts = append(parts, fmt.Sprintf("Moderate match (%.2f)", m.Score))
	case m.Score > 0:
		parts = append(parts, fmt.Sprintf("Weak match (%.2f)", m.Score))
	default:
		parts = append(parts, "No skill overlap")
	}
	if m := rc.MatchResult; m != nil && m.Source == types.SourceFallback {
		parts = append(parts, "Scored by skill overlap fallback")
	}

	var critical []string
	for _, g := range rc.Gaps {
		if g.Tier == types.TierCritical {
			critical = append(critical, g.Skill.Name)
		}
	}
	if len(critical) > 0 {
		parts = append(parts, fmt.Sprintf("%d critical gaps (%s)", len(critical), strings.Join(critical, ", ")))
	}

	if rc.SuccessFactor < 1 {
		parts = append(parts, fmt.Sprintf("Historical success factor %.2f", rc.SuccessFactor))
	}

	return strings.Join(parts, ". ")
}
