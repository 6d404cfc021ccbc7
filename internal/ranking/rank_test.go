package ranking

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/gaps"
	"github.com/jonathan/resume-matcher/internal/scoring"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// fakeScorer scores by trimmed résumé text.
type fakeScorer struct {
	scores map[string]float64
	errs   map[string]error
	delay  time.Duration

	mu           sync.Mutex
	jobSkillsArg []types.SkillSet

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeScorer) ScoreAgainst(_ context.Context, resume, _ types.TextBlob, jobSkills types.SkillSet) (types.MatchResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.jobSkillsArg = append(f.jobSkillsArg, jobSkills)
	f.mu.Unlock()

	key := strings.TrimSpace(resume.String())
	if err := f.errs[key]; err != nil {
		return types.MatchResult{}, err
	}
	return types.NewMatchResult(f.scores[key], types.DefaultThreshold, types.SourceModel), nil
}

// fakeExtractor returns canned skill sets by trimmed text.
type fakeExtractor struct {
	sets map[string]types.SkillSet
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, text types.TextBlob) (types.SkillSet, error) {
	if f.err != nil {
		return types.SkillSet{}, f.err
	}
	return f.sets[strings.TrimSpace(text.String())], nil
}

type fakeSuccess map[types.CandidateID]float64

func (f fakeSuccess) SuccessFactor(_ context.Context, id types.CandidateID) (float64, error) {
	if v, ok := f[id]; ok {
		return v, nil
	}
	return 0, errors.New("no history")
}

func candidate(id, resume string) types.CandidateProfile {
	return types.CandidateProfile{ID: types.CandidateID(id), Resume: resume}
}

func rankedIDs(r types.RankedCandidates) []types.CandidateID {
	ids := make([]types.CandidateID, len(r.Ranked))
	for i, c := range r.Ranked {
		ids[i] = c.CandidateID
	}
	return ids
}

func newTestRanker(scorer MatchScorer, extractor SkillExtractor, opts ...Option) *Ranker {
	return NewRanker(scorer, extractor, gaps.NewAnalyzer(gaps.DefaultBands(), nil), nil, opts...)
}

func TestRank_TieBreakByCandidateID(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{"a": 0.9, "b": 0.9}}
	r := newTestRanker(scorer, &fakeExtractor{})

	got, err := r.Rank(context.Background(), "job", []types.CandidateProfile{candidate("2", "a"), candidate("1", "b")})
	require.NoError(t, err)

	assert.Equal(t, []types.CandidateID{"1", "2"}, rankedIDs(got))
	assert.Equal(t, 0.9, got.Ranked[0].CompositeScore)
	assert.Equal(t, 0.9, got.Ranked[1].CompositeScore)
}

func TestRank_TotalOrderIndependentOfInputOrder(t *testing.T) {
	scores := map[string]float64{"high": 0.9, "mid": 0.5, "low": 0.1}
	scorer := &fakeScorer{scores: scores}
	r := newTestRanker(scorer, &fakeExtractor{}, WithConcurrency(4))

	candidates := []types.CandidateProfile{
		candidate("10", "mid"), candidate("9", "mid"), candidate("2", "high"),
		candidate("alice", "high"), candidate("11", "high"), candidate("bob", "low"),
		candidate("1", "low"), candidate("3", "mid"),
	}
	want := []types.CandidateID{"2", "11", "alice", "3", "9", "10", "1", "bob"}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]types.CandidateProfile(nil), candidates...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := r.Rank(context.Background(), "job", shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, rankedIDs(got))
	}
}

func TestRank_SuccessFactor(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{"a": 0.8, "b": 0.6, "c": 0.7}}
	success := fakeSuccess{"1": 0.5, "2": 1.0, "3": 1.7}
	r := newTestRanker(scorer, &fakeExtractor{}, WithSuccessPredictor(success))

	got, err := r.Rank(context.Background(), "job", []types.CandidateProfile{
		candidate("1", "a"), candidate("2", "b"), candidate("3", "c"), candidate("4", "a"),
	})
	require.NoError(t, err)

	assert.Equal(t, []types.CandidateID{"4", "3", "2", "1"}, rankedIDs(got))

	byID := map[types.CandidateID]types.RankedCandidate{}
	for _, c := range got.Ranked {
		byID[c.CandidateID] = c
	}
	assert.InDelta(t, 0.4, byID["1"].CompositeScore, 1e-9)
	assert.Equal(t, 1.0, byID["3"].SuccessFactor, "factor is clamped")
	// missing history degrades to 1.0 and is reported
	assert.Equal(t, 1.0, byID["4"].SuccessFactor)
	require.Len(t, byID["4"].Failures, 1)
	assert.Equal(t, StepSuccessFactor, byID["4"].Failures[0].Step)
	assert.Contains(t, byID["1"].Notes, "Historical success factor 0.50")
}

func TestRank_ScoringFailureIsAnnotated(t *testing.T) {
	scorer := &fakeScorer{
		scores: map[string]float64{"ok": 0.1},
		errs:   map[string]error{"down": &types.BackendUnavailableError{Backend: "scoring", Message: "timeout"}},
	}
	r := newTestRanker(scorer, &fakeExtractor{})

	got, err := r.Rank(context.Background(), "job", []types.CandidateProfile{candidate("1", "down"), candidate("2", "ok")})
	require.NoError(t, err)
	require.Len(t, got.Ranked, 2)

	assert.Equal(t, types.CandidateID("2"), got.Ranked[0].CandidateID)

	failed := got.Ranked[1]
	assert.Nil(t, failed.MatchResult)
	assert.Zero(t, failed.CompositeScore)
	require.Len(t, failed.Failures, 1)
	assert.Equal(t, StepMatch, failed.Failures[0].Step)
	assert.True(t, failed.Failures[0].Unavailable)
	assert.Contains(t, failed.Notes, "Match score unavailable")
}

func TestRank_Gaps(t *testing.T) {
	extractor := &fakeExtractor{sets: map[string]types.SkillSet{
		"Need Go, SQL and Docker": {
			{Name: "go", Relevance: 0.9},
			{Name: "sql", Relevance: 0.6},
			{Name: "docker", Relevance: 0.3},
		},
		"I write Go": {{Name: "go"}},
	}}
	scorer := &fakeScorer{scores: map[string]float64{}}
	r := newTestRanker(scorer, extractor)

	declared := types.CandidateProfile{ID: "1", Skills: []types.Skill{{Name: "SQL"}}}
	got, err := r.Rank(context.Background(), "Need Go, SQL and Docker", []types.CandidateProfile{declared, candidate("2", "I write Go")})
	require.NoError(t, err)

	byID := map[types.CandidateID][]types.SkillGap{}
	for _, c := range got.Ranked {
		byID[c.CandidateID] = c.Gaps
		assert.Empty(t, c.Failures)
	}

	require.Len(t, byID["1"], 2)
	assert.Equal(t, "go", byID["1"][0].Skill.Name)
	assert.Equal(t, types.TierCritical, byID["1"][0].Tier)
	assert.Equal(t, "docker", byID["1"][1].Skill.Name)

	require.Len(t, byID["2"], 2)
	assert.Equal(t, "sql", byID["2"][0].Skill.Name)
	assert.Equal(t, types.TierRecommended, byID["2"][0].Tier)

	for _, c := range got.Ranked {
		if c.CandidateID == "1" {
			assert.Contains(t, c.Notes, "1 critical gaps (go)")
		}
	}
}

func TestRank_JobExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: &types.BackendUnavailableError{Backend: "skills", Message: "down"}}
	scorer := &fakeScorer{scores: map[string]float64{"a": 0.7}}
	r := newTestRanker(scorer, extractor)

	got, err := r.Rank(context.Background(), "job", []types.CandidateProfile{candidate("1", "a")})
	require.NoError(t, err)
	require.Len(t, got.Ranked, 1)

	rc := got.Ranked[0]
	assert.InDelta(t, 0.7, rc.CompositeScore, 1e-9)
	assert.Empty(t, rc.Gaps)

	steps := make([]string, len(rc.Failures))
	for i, f := range rc.Failures {
		steps[i] = f.Step
		assert.True(t, f.Unavailable)
	}
	assert.Equal(t, []string{StepJobSkills, StepCandidateSkills, StepGaps}, steps)

	require.Len(t, scorer.jobSkillsArg, 1)
	assert.Nil(t, scorer.jobSkillsArg[0], "scorer extracts job skills itself")
}

func TestRank_InputErrors(t *testing.T) {
	r := newTestRanker(&fakeScorer{}, &fakeExtractor{})

	tests := []struct {
		name       string
		job        types.TextBlob
		candidates []types.CandidateProfile
		field      string
	}{
		{"blank job", "  ", []types.CandidateProfile{candidate("1", "a")}, "jobDescription"},
		{"no candidates", "job", nil, "candidates"},
		{"empty id", "job", []types.CandidateProfile{candidate(" ", "a")}, "candidates[0].id"},
		{"duplicate id", "job", []types.CandidateProfile{candidate("1", "a"), candidate("1", "b")}, "candidates[1].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Rank(context.Background(), tt.job, tt.candidates)

			var ie *types.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestRank_BoundedConcurrency(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{}, delay: 5 * time.Millisecond}
	r := newTestRanker(scorer, &fakeExtractor{}, WithConcurrency(3))

	var candidates []types.CandidateProfile
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidate(string(rune('a'+i)), "x"))
	}

	got, err := r.Rank(context.Background(), "job", candidates)
	require.NoError(t, err)

	assert.Len(t, got.Ranked, 20)
	assert.LessOrEqual(t, scorer.maxInFlight.Load(), int32(3))
	assert.Equal(t, types.CandidateID("a"), got.Ranked[0].CandidateID)
}

func TestRank_WithFallbackScorer(t *testing.T) {
	extractor := skills.NewExtractor(skills.NewVocabularyBackend(nil), nil)
	scorer := scoring.NewScorer(extractor, nil)
	r := NewRanker(scorer, extractor, gaps.NewAnalyzer(gaps.DefaultBands(), nil), nil)

	got, err := r.Rank(context.Background(), "Need Go, PostgreSQL and Docker", []types.CandidateProfile{
		{ID: "7", Summary: "Go developer", Experience: "PostgreSQL and Docker in production"},
		{ID: "3", Summary: "Frontend engineer", Experience: "React and TypeScript"},
		{ID: "5", Headline: "Gopher", Skills: []types.Skill{{Name: "golang"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.CandidateID{"7", "5", "3"}, rankedIDs(got))
	assert.Equal(t, 1.0, got.Ranked[0].CompositeScore)
	assert.Equal(t, types.SourceFallback, got.Ranked[0].MatchResult.Source)
	assert.Empty(t, got.Ranked[0].Gaps)
	assert.Contains(t, got.Ranked[0].Notes, "Strong match (1.00)")
	assert.Zero(t, got.Ranked[2].CompositeScore)
	assert.Len(t, got.Ranked[2].Gaps, 3)
}
