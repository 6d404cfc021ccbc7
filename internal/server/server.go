// Package server provides the HTTP REST API for the matching engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/assembly"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
	"github.com/jonathan/resume-matcher/internal/types"
)

// SkillExtractor extracts a normalized skill set from text.
type SkillExtractor interface {
	Extract(ctx context.Context, text types.TextBlob) (types.SkillSet, error)
}

// MatchScorer scores résumés against jobs.
type MatchScorer interface {
	Score(ctx context.Context, resume, job types.TextBlob) (types.MatchResult, error)
	ScoreSkills(ctx context.Context, resume types.TextBlob, jobSkills []types.Skill) (types.MatchResult, error)
}

// GapAnalyzer diffs required and possessed skills.
type GapAnalyzer interface {
	Analyze(required, possessed []types.Skill) []types.SkillGap
}

// CandidateRanker ranks candidate batches.
type CandidateRanker interface {
	Rank(ctx context.Context, job types.TextBlob, candidates []types.CandidateProfile) (types.RankedCandidates, error)
}

// ResumeAssembler builds tailored résumés.
type ResumeAssembler interface {
	Assemble(ctx context.Context, req assembly.Request) (types.AssembledResume, error)
}

// HealthMonitor reports scoring backend reachability.
type HealthMonitor interface {
	IsReady(ctx context.Context) bool
	Status() types.BackendStatus
}

// Deps are the engine components served over HTTP. Monitor may be nil when no
// scoring backend is configured.
type Deps struct {
	Extractor SkillExtractor
	Scorer    MatchScorer
	Analyzer  GapAnalyzer
	Ranker    CandidateRanker
	Assembler ResumeAssembler
	Monitor   HealthMonitor
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	deps        Deps
	rateLimiter *ratelimit.Limiter
	validator   *validator.Validate
	log         *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps, log *zap.Logger) *Server {
	s := &Server{
		deps:        deps,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validator:   validator.New(),
		log:         logger.Component(log, "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/model-status", s.handleModelStatus)
	mux.HandleFunc("POST /api/extract-skills", s.handleExtractSkills)
	mux.HandleFunc("POST /api/match-resume", s.handleMatchResume)
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /api/skill-gaps", s.handleSkillGaps)
	mux.HandleFunc("POST /api/generate-resume", s.handleGenerateResume)
	mux.HandleFunc("POST /api/rank-candidates", s.handleRankCandidates)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withRequestID(s.withLogging(s.withCORS(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // ranking large batches against the model
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}
