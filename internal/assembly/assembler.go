// Package assembly builds job-tailored résumé drafts from a résumé and a job description.
//
// The assembler extracts the job's skills, scores the résumé, diffs skills into gaps,
// reorders résumé sections toward the job and asks a DraftGenerator for the summary.
// Failed steps are reported on the result instead of failing the call.
package assembly

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Steps reported in AssembledResume.Failures.
const (
	StepJobSkills       = "job_skills"
	StepMatch           = "match"
	StepCandidateSkills = "candidate_skills"
	StepGaps            = "gaps"
	StepDraft           = "draft"
)

// SkillExtractor extracts a normalized skill set from text.
type SkillExtractor interface {
	Extract(ctx context.Context, text types.TextBlob) (types.SkillSet, error)
}

// MatchScorer scores a résumé against a job whose skills may already be known.
type MatchScorer interface {
	ScoreAgainst(ctx context.Context, resume, job types.TextBlob, jobSkills types.SkillSet) (types.MatchResult, error)
}

// GapAnalyzer diffs required and possessed skills.
type GapAnalyzer interface {
	Analyze(required, possessed []types.Skill) []types.SkillGap
}

// Request is one assembly input. JobSkills and Profile are optional: when JobSkills
// is empty the job text is extracted, and Profile.Skills, when set, are used as the
// candidate's declared skills instead of extracting them from the résumé.
type Request struct {
	Resume    types.TextBlob
	Job       types.TextBlob
	JobSkills []types.Skill
	Profile   types.CandidateProfile
}

// Assembler produces AssembledResumes. It is safe for concurrent use.
type Assembler struct {
	extractor SkillExtractor
	scorer    MatchScorer
	analyzer  GapAnalyzer
	generator DraftGenerator
	log       *zap.Logger
}

// NewAssembler builds an assembler. A nil generator uses TemplateGenerator.
func NewAssembler(extractor SkillExtractor, scorer MatchScorer, analyzer GapAnalyzer, generator DraftGenerator, log *zap.Logger) *Assembler {
	if generator == nil {
		generator = TemplateGenerator{}
	}
	return &Assembler{
		extractor: extractor,
		scorer:    scorer,
		analyzer:  analyzer,
		generator: generator,
		log:       logger.Component(log, "assembly"),
	}
}

// Assemble builds the tailored résumé. Only invalid input returns an error; upstream
// failures leave the affected fields empty and are listed in Failures with Partial set.
// Identical requests yield identical results when the collaborators are deterministic.
func (a *Assembler) Assemble(ctx context.Context, req Request) (types.AssembledResume, error) {
	resume := req.Resume
	if parsing.IsBlank(resume) {
		resume = parsing.ResumeText(req.Profile)
	}
	if parsing.IsBlank(resume) {
		return types.AssembledResume{}, &types.InputError{Field: "resume", Message: "résumé text is required"}
	}
	if parsing.IsBlank(req.Job) {
		return types.AssembledResume{}, &types.InputError{Field: "jobDescription", Message: "job description is required"}
	}

	out := types.AssembledResume{
		Gaps:              []types.SkillGap{},
		HighlightedSkills: []string{},
	}
	fail := func(step string, err error) {
		a.log.Warn("assembly step failed", zap.String("step", step), zap.Error(err))
		out.Failures = append(out.Failures, types.NewFailure(step, err))
	}

	jobSkills, jobOK := a.jobSkills(ctx, req, fail)
	out.JobSkills = jobSkills

	var scoreSkills types.SkillSet
	if jobOK {
		scoreSkills = jobSkills
	}
	match, err := a.scorer.ScoreAgainst(ctx, resume, req.Job, scoreSkills)
	if err != nil {
		if types.IsInputError(err) {
			return types.AssembledResume{}, err
		}
		fail(StepMatch, err)
	} else {
		out.Match = &match
		score := match.Score
		out.MatchScore = &score
	}

	possessed, candOK := a.candidateSkills(ctx, req.Profile, resume, fail)

	if jobOK && candOK {
		out.Gaps = a.analyzer.Analyze(jobSkills, possessed)
	} else {
		fail(StepGaps, &types.BackendUnavailableError{Backend: "skills", Message: "skills unavailable, gaps not computed"})
	}

	sections := parsing.ExtractSections(resume.String())
	out.Contact = parsing.ExtractContact(resume.String())
	dropNameLine(sections, out.Contact.Name)

	matched, missing := splitMatched(jobSkills, possessed)
	if matched != nil {
		out.HighlightedSkills = matched
	}

	tailored := make(parsing.Sections, len(sections))
	for name, content := range sections {
		tailored[name] = content
	}
	if s, ok := sections[types.SectionSkills]; ok || len(possessed) > 0 {
		tailored[types.SectionSkills] = personalizeSkills(s, jobSkills, possessed)
	}
	if s, ok := sections[types.SectionExperience]; ok {
		tailored[types.SectionExperience] = personalizeExperience(s, jobSkills)
	}

	draft, err := a.generator.Draft(ctx, DraftRequest{
		Resume:  resume.String(),
		Job:     req.Job.String(),
		Summary: sections.Get(types.SectionSummary),
		Matched: matched,
		Missing: missing,
	})
	if err != nil {
		fail(StepDraft, err)
	} else if draft.Summary != "" {
		tailored[types.SectionSummary] = draft.Summary
	}

	out.Sections = tailored.Ordered()
	out.PersonalizedResume = combineSections(tailored, out.Contact)
	out.Suggestions = buildSuggestions(out.Gaps, sections)
	out.ATSScore = ATSScore(jobSkills, possessed, sections, out.Contact)
	out.Partial = len(out.Failures) > 0

	a.log.Info("assembled résumé",
		zap.Int("job_skills", len(jobSkills)),
		zap.Int("gaps", len(out.Gaps)),
		zap.Float64("ats_score", out.ATSScore),
		zap.Bool("partial", out.Partial),
	)
	return out, nil
}

// dropNameLine removes the candidate's name from the top of the summary; it is
// rendered with the contact details instead.
func dropNameLine(sections parsing.Sections, name string) {
	summary, ok := sections[types.SectionSummary]
	if !ok || name == "" || !strings.HasPrefix(summary, name) {
		return
	}
	if rest := strings.TrimSpace(strings.TrimPrefix(summary, name)); rest != "" {
		sections[types.SectionSummary] = rest
	} else {
		delete(sections, types.SectionSummary)
	}
}

func (a *Assembler) jobSkills(ctx context.Context, req Request, fail func(string, error)) (types.SkillSet, bool) {
	if given := parsing.NormalizeSkills(req.JobSkills); len(given) > 0 {
		return given, true
	}
	extracted, err := a.extractor.Extract(ctx, req.Job)
	if err != nil {
		fail(StepJobSkills, err)
		return types.SkillSet{}, false
	}
	return extracted, true
}

func (a *Assembler) candidateSkills(ctx context.Context, profile types.CandidateProfile, resume types.TextBlob, fail func(string, error)) (types.SkillSet, bool) {
	if declared := parsing.NormalizeSkills(profile.Skills); len(declared) > 0 {
		return declared, true
	}
	extracted, err := a.extractor.Extract(ctx, resume)
	if err != nil {
		fail(StepCandidateSkills, err)
		return types.SkillSet{}, false
	}
	return extracted, true
}
