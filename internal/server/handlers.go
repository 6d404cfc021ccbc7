package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/assembly"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// maxBodyBytes bounds request bodies; rank requests carry whole résumés.
const maxBodyBytes = 4 << 20

type extractSkillsRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

type extractSkillsResponse struct {
	Skills          types.SkillSet `json:"skills"`
	ExperienceYears int            `json:"experienceYears"`
	Education       []string       `json:"education"`
}

type matchResumeRequest struct {
	Resume    string        `json:"resume" validate:"required"`
	JobSkills []types.Skill `json:"jobSkills" validate:"required,min=1"`
}

type matchResumeResponse struct {
	MatchScore float64           `json:"matchScore"`
	Label      types.Label       `json:"label"`
	Threshold  float64           `json:"threshold"`
	Source     types.ScoreSource `json:"source"`
}

type evaluateRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	Resume         string `json:"resume" validate:"required"`
}

type evaluateResponse struct {
	Prediction types.Label `json:"prediction"`
}

type skillGapsRequest struct {
	Required  []types.Skill `json:"required"`
	Possessed []types.Skill `json:"possessed"`
}

type skillGapsResponse struct {
	Gaps []types.SkillGap `json:"gaps"`
}

type generateResumeRequest struct {
	Resume          string                  `json:"resume"`
	JobDescription  string                  `json:"jobDescription" validate:"required"`
	ExtractedSkills []types.Skill           `json:"extractedSkills"`
	Candidate       *types.CandidateProfile `json:"candidate,omitempty" validate:"-"`
}

type rankCandidatesRequest struct {
	JobDescription string                   `json:"jobDescription" validate:"required"`
	Candidates     []types.CandidateProfile `json:"candidates" validate:"required,min=1,dive"`
}

type modelStatusResponse struct {
	Status    string             `json:"status"`
	State     types.BackendState `json:"state"`
	CheckedAt *time.Time         `json:"checkedAt,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &types.InputError{Field: "body", Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		case errors.Is(err, io.EOF):
			return &types.InputError{Field: "body", Message: "request body is required"}
		}
		return &types.InputError{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return s.validator.Struct(v)
}

func text(name, value string) types.TextBlob {
	return parsing.Normalize([]types.Field{types.F(name, value)})
}

func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req extractSkillsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	job := text("jobDescription", req.JobDescription)
	if parsing.IsBlank(job) {
		s.writeError(w, r, &types.InputError{Field: "jobDescription", Message: "job description is required"})
		return
	}

	skills, err := s.deps.Extractor.Extract(r.Context(), job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if skills == nil {
		skills = types.SkillSet{}
	}

	reqs := parsing.ExtractRequirements(job)
	s.jsonResponse(w, http.StatusOK, extractSkillsResponse{
		Skills:          skills,
		ExperienceYears: reqs.ExperienceYears,
		Education:       reqs.Education,
	})
}

func (s *Server) handleMatchResume(w http.ResponseWriter, r *http.Request) {
	var req matchResumeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Scorer.ScoreSkills(r.Context(), text("resume", req.Resume), req.JobSkills)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, matchResumeResponse{
		MatchScore: result.Score,
		Label:      result.Label,
		Threshold:  result.Threshold,
		Source:     result.Source,
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Scorer.Score(r.Context(), text("resume", req.Resume), text("job_description", req.JobDescription))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, evaluateResponse{Prediction: result.Label})
}

func (s *Server) handleSkillGaps(w http.ResponseWriter, r *http.Request) {
	var req skillGapsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	gaps := s.deps.Analyzer.Analyze(req.Required, req.Possessed)
	if gaps == nil {
		gaps = []types.SkillGap{}
	}
	s.jsonResponse(w, http.StatusOK, skillGapsResponse{Gaps: gaps})
}

func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	var req generateResumeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ar := assembly.Request{
		Resume:    text("resume", req.Resume),
		Job:       text("jobDescription", req.JobDescription),
		JobSkills: req.ExtractedSkills,
	}
	if req.Candidate != nil {
		ar.Profile = *req.Candidate
	}

	out, err := s.deps.Assembler.Assemble(r.Context(), ar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if out.Partial {
		s.log.Warn("resume assembled with failures",
			zap.Int("failures", len(out.Failures)),
			requestIDField(r.Context()),
		)
	}

	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleRankCandidates(w http.ResponseWriter, r *http.Request) {
	var req rankCandidatesRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ranked, err := s.deps.Ranker.Rank(r.Context(), text("jobDescription", req.JobDescription), req.Candidates)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ranked)
}

// handleModelStatus always answers 200; readiness is in the body.
func (s *Server) handleModelStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Monitor == nil {
		s.jsonResponse(w, http.StatusOK, modelStatusResponse{
			Status:  "unavailable",
			State:   types.BackendUnknown,
			Message: "no scoring backend configured",
		})
		return
	}

	ready := s.deps.Monitor.IsReady(r.Context())
	st := s.deps.Monitor.Status()

	resp := modelStatusResponse{
		Status:  "unavailable",
		State:   st.State,
		Message: st.LastError,
	}
	if ready {
		resp.Status = "ready"
	}
	if !st.CheckedAt.IsZero() {
		checked := st.CheckedAt
		resp.CheckedAt = &checked
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
