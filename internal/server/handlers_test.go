package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/assembly"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
	"github.com/jonathan/resume-matcher/internal/types"
)

type fakeExtractor struct {
	skills types.SkillSet
	err    error
	got    types.TextBlob
}

func (f *fakeExtractor) Extract(_ context.Context, text types.TextBlob) (types.SkillSet, error) {
	f.got = text
	return f.skills, f.err
}

type fakeScorer struct {
	result    types.MatchResult
	err       error
	gotResume types.TextBlob
	gotJob    types.TextBlob
	gotSkills []types.Skill
}

func (f *fakeScorer) Score(_ context.Context, resume, job types.TextBlob) (types.MatchResult, error) {
	f.gotResume, f.gotJob = resume, job
	return f.result, f.err
}

func (f *fakeScorer) ScoreSkills(_ context.Context, resume types.TextBlob, jobSkills []types.Skill) (types.MatchResult, error) {
	f.gotResume, f.gotSkills = resume, jobSkills
	return f.result, f.err
}

type fakeAnalyzer struct {
	gaps []types.SkillGap
}

func (f *fakeAnalyzer) Analyze(_, _ []types.Skill) []types.SkillGap {
	return f.gaps
}

type fakeRanker struct {
	out types.RankedCandidates
	err error
	got []types.CandidateProfile
}

func (f *fakeRanker) Rank(_ context.Context, _ types.TextBlob, candidates []types.CandidateProfile) (types.RankedCandidates, error) {
	f.got = candidates
	return f.out, f.err
}

type fakeAssembler struct {
	out types.AssembledResume
	err error
	got assembly.Request
}

func (f *fakeAssembler) Assemble(_ context.Context, req assembly.Request) (types.AssembledResume, error) {
	f.got = req
	return f.out, f.err
}

type fakeMonitor struct {
	ready  bool
	status types.BackendStatus
}

func (f *fakeMonitor) IsReady(context.Context) bool { return f.ready }
func (f *fakeMonitor) Status() types.BackendStatus { return f.status }

func newTestServer(deps Deps) *Server {
	return New(Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}, deps, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(Deps{})
	rec := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHandleExtractSkills(t *testing.T) {
	ext := &fakeExtractor{skills: types.SkillSet{{Name: "go", Relevance: 0.9}, {Name: "docker", Relevance: 0.4}}}
	s := newTestServer(Deps{Extractor: ext})

	rec := do(t, s, http.MethodPost, "/api/extract-skills",
		`{"jobDescription": "Go engineer with 5+ years of experience and a Bachelor's degree. Docker a plus."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp extractSkillsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"go", "docker"}, resp.Skills.Names())
	assert.Equal(t, 5, resp.ExperienceYears)
	assert.Equal(t, []string{"Bachelor's Degree"}, resp.Education)
	assert.Contains(t, ext.got.String(), "Go engineer")
}

func TestHandleExtractSkills_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		errMsg string
	}{
		{"empty body", "", nil, http.StatusBadRequest, "invalid request"},
		{"invalid json", "{", nil, http.StatusBadRequest, "invalid request"},
		{"missing field", `{}`, nil, http.StatusBadRequest, "invalid request"},
		{"blank text", `{"jobDescription": "   "}`, nil, http.StatusBadRequest, "invalid request"},
		{"extractor unavailable", `{"jobDescription": "Go"}`, types.ErrExtractorUnavailable, http.StatusServiceUnavailable, "service unavailable"},
		{"backend unavailable", `{"jobDescription": "Go"}`, &types.BackendUnavailableError{Backend: "scorer", Message: "down"}, http.StatusServiceUnavailable, "service unavailable"},
		{"malformed", `{"jobDescription": "Go"}`, &types.MalformedResponseError{Backend: "llm", Message: "not json"}, http.StatusBadGateway, "bad gateway"},
		{"unexpected", `{"jobDescription": "Go"}`, errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Deps{Extractor: &fakeExtractor{err: tt.err}})
			rec := do(t, s, http.MethodPost, "/api/extract-skills", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.errMsg, decodeBody(t, rec)["error"])
		})
	}
}

func TestHandleMatchResume(t *testing.T) {
	scorer := &fakeScorer{result: types.NewMatchResult(0.75, 0.6, types.SourceFallback)}
	s := newTestServer(Deps{Scorer: scorer})

	rec := do(t, s, http.MethodPost, "/api/match-resume",
		`{"resume": "Go and Docker developer", "jobSkills": ["go", {"name": "docker", "relevance": 0.5}, {"skill": "aws"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, 0.75, body["matchScore"])
	assert.Equal(t, "Match", body["label"])
	assert.Equal(t, 0.6, body["threshold"])
	assert.Equal(t, "fallback", body["source"])

	require.Len(t, scorer.gotSkills, 3)
	assert.Equal(t, "aws", scorer.gotSkills[2].Name)
	assert.Equal(t, 0.5, scorer.gotSkills[1].Relevance)
}

func TestHandleMatchResume_Validation(t *testing.T) {
	s := newTestServer(Deps{Scorer: &fakeScorer{}})

	rec := do(t, s, http.MethodPost, "/api/match-resume", `{"resume": "Go", "jobSkills": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "JobSkills")

	rec = do(t, s, http.MethodPost, "/api/match-resume", `{"jobSkills": ["go"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMatchResume_ScorerInputError(t *testing.T) {
	s := newTestServer(Deps{Scorer: &fakeScorer{err: &types.InputError{Field: "jobSkills", Message: "at least one job skill is required"}}})

	rec := do(t, s, http.MethodPost, "/api/match-resume", `{"resume": "Go", "jobSkills": [" "]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "jobSkills", decodeBody(t, rec)["field"])
}

func TestHandleEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"above threshold", 0.61, "Match"},
		{"at threshold", 0.6, "No Match"},
		{"below threshold", 0.2, "No Match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := &fakeScorer{result: types.NewMatchResult(tt.score, 0.6, types.SourceModel)}
			s := newTestServer(Deps{Scorer: scorer})

			rec := do(t, s, http.MethodPost, "/api/evaluate", `{"job_description": " Go role ", "resume": "Go dev"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decodeBody(t, rec)["prediction"])
			assert.Equal(t, types.TextBlob("Go role"), scorer.gotJob)
		})
	}
}

func TestHandleEvaluate_Unavailable(t *testing.T) {
	s := newTestServer(Deps{Scorer: &fakeScorer{err: &types.BackendUnavailableError{Backend: "scorer", Message: "probe failed"}}})

	rec := do(t, s, http.MethodPost, "/api/evaluate", `{"job_description": "Go", "resume": "Go"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "service unavailable", decodeBody(t, rec)["error"])
}

func TestHandleSkillGaps(t *testing.T) {
	s := newTestServer(Deps{Analyzer: &fakeAnalyzer{}})
	rec := do(t, s, http.MethodPost, "/api/skill-gaps", `{"required": [], "possessed": []}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"gaps": []}`, rec.Body.String())

	gaps := []types.SkillGap{{Skill: types.Skill{Name: "kubernetes", Relevance: 0.9}, Tier: types.TierCritical, Suggestion: "Deploy a service"}}
	s = newTestServer(Deps{Analyzer: &fakeAnalyzer{gaps: gaps}})
	rec = do(t, s, http.MethodPost, "/api/skill-gaps", `{"required": [{"name": "kubernetes", "relevance": 0.9}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp skillGapsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gaps, resp.Gaps)
}

func TestHandleGenerateResume(t *testing.T) {
	score := 0.4
	asm := &fakeAssembler{out: types.AssembledResume{
		PersonalizedResume: "Jane Doe",
		MatchScore:         &score,
		Partial:            true,
		Failures:           []types.Failure{{Step: "draft", Message: "llm down", Unavailable: true}},
	}}
	s := newTestServer(Deps{Assembler: asm})

	rec := do(t, s, http.MethodPost, "/api/generate-resume", `{
		"resume": "Jane Doe\nSKILLS\nGo",
		"jobDescription": "Go engineer",
		"extractedSkills": ["go"],
		"candidate": {"name": "Jane Doe"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["partial"])
	assert.Equal(t, 0.4, body["matchScore"])

	assert.Equal(t, types.TextBlob("Go engineer"), asm.got.Job)
	assert.Equal(t, "Jane Doe", asm.got.Profile.Name)
	require.Len(t, asm.got.JobSkills, 1)
	assert.Equal(t, "go", asm.got.JobSkills[0].Name)
}

func TestHandleGenerateResume_InputError(t *testing.T) {
	asm := &fakeAssembler{err: &types.InputError{Field: "resume", Message: "résumé text is required"}}
	s := newTestServer(Deps{Assembler: asm})

	rec := do(t, s, http.MethodPost, "/api/generate-resume", `{"resume": "", "jobDescription": "Go"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "resume", decodeBody(t, rec)["field"])
}

func TestHandleRankCandidates(t *testing.T) {
	ranker := &fakeRanker{out: types.RankedCandidates{Ranked: []types.RankedCandidate{
		{CandidateID: "2", CompositeScore: 0.8, SuccessFactor: 1},
		{CandidateID: "1", CompositeScore: 0.5, SuccessFactor: 1},
	}}}
	s := newTestServer(Deps{Ranker: ranker})

	rec := do(t, s, http.MethodPost, "/api/rank-candidates",
		`{"jobDescription": "Go", "candidates": [{"id": 1, "resume": "Go"}, {"id": "2", "resume": "Go, Docker"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.RankedCandidates
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Ranked, 2)
	assert.Equal(t, types.CandidateID("2"), resp.Ranked[0].CandidateID)

	require.Len(t, ranker.got, 2)
	assert.Equal(t, types.CandidateID("1"), ranker.got[0].ID)
}

func TestHandleRankCandidates_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"jobDescription": "Go", "candidates": []}`},
		{"missing candidates", `{"jobDescription": "Go"}`},
		{"missing id", `{"jobDescription": "Go", "candidates": [{"resume": "Go"}]}`},
		{"missing job", `{"candidates": [{"id": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := &fakeRanker{}
			s := newTestServer(Deps{Ranker: ranker})

			rec := do(t, s, http.MethodPost, "/api/rank-candidates", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.True(t, strings.HasPrefix(decodeBody(t, rec)["detail"].(string), "validation error"))
			assert.Nil(t, ranker.got, "ranker must not run")
		})
	}
}

func TestHandleModelStatus(t *testing.T) {
	checked := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		monitor HealthMonitor
		status  string
		state   string
		checked bool
	}{
		{"no backend", nil, "unavailable", "unknown", false},
		{"ready", &fakeMonitor{ready: true, status: types.BackendStatus{State: types.BackendConnected, CheckedAt: checked}}, "ready", "connected", true},
		{"down", &fakeMonitor{status: types.BackendStatus{State: types.BackendDisconnected, CheckedAt: checked, LastError: "timeout"}}, "unavailable", "disconnected", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Deps{Monitor: tt.monitor})
			rec := do(t, s, http.MethodGet, "/api/model-status", "")

			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.status, body["status"])
			assert.Equal(t, tt.state, body["state"])
			if tt.checked {
				assert.Equal(t, "2024-03-01T12:00:00Z", body["checkedAt"])
			} else {
				assert.NotContains(t, body, "checkedAt")
			}
		})
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	s := newTestServer(Deps{})
	rec := do(t, s, http.MethodGet, "/api/evaluate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDecode_BodyTooLarge(t *testing.T) {
	s := newTestServer(Deps{Extractor: &fakeExtractor{}})
	big := `{"jobDescription": "` + strings.Repeat("a", maxBodyBytes+1) + `"}`

	rec := do(t, s, http.MethodPost, "/api/extract-skills", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "exceeds")
}
