package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/assembly"
	"github.com/jonathan/resume-matcher/internal/backend"
	"github.com/jonathan/resume-matcher/internal/cache"
	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/fetch"
	"github.com/jonathan/resume-matcher/internal/gaps"
	"github.com/jonathan/resume-matcher/internal/health"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/scoring"
	"github.com/jonathan/resume-matcher/internal/skills"
)

// app holds the wired engine for one command invocation.
type app struct {
	cfg *config.Config
	log *zap.Logger

	cache   *cache.Tiered
	llm     llm.Client
	backend *backend.Client
	monitor *health.Monitor
	db      *db.DB
	fetcher *fetch.Fetcher
	printer *observability.Printer

	extractor *skills.Extractor
	scorer    *scoring.Scorer
	analyzer  *gaps.Analyzer
	ranker    *ranking.Ranker
	assembler *assembly.Assembler
}

// newApp loads configuration and builds every component. Optional backends (scoring
// service, LLM, Redis, PostgreSQL) are wired only when configured.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		printer: observability.NewPrinter(os.Stderr),
	}

	a.cache = cache.New(ctx, cache.Config{
		RedisURL:   cfg.Cache.RedisURL,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	}, log)

	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(ctx, cfg.LLM.ModelConfig(), cfg.LLM.APIKey, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.llm = client
	} else if cfg.LLM.Enabled {
		log.Info("no LLM API key configured, LLM features disabled")
	}

	if cfg.Backend.URL != "" {
		a.backend = backend.NewClient(cfg.Backend.URL, cfg.Backend.APIKey, cfg.Backend.Timeout, log)
		a.monitor = health.NewMonitor(a.backend, log,
			health.WithTTL(cfg.Health.TTL),
			health.WithProbeTimeout(cfg.Health.ProbeTimeout),
		)
	}

	a.extractor = skills.NewExtractor(a.skillBackend(), log)
	a.scorer = scoring.NewScorer(a.extractor, log, a.scorerOptions()...)
	a.analyzer = gaps.NewAnalyzer(gaps.Bands{
		Critical:    cfg.Matching.CriticalBand,
		Recommended: cfg.Matching.RecommendedBand,
	}, nil)

	rankOpts := []ranking.Option{ranking.WithConcurrency(cfg.Ranking.Concurrency)}
	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = database
		if err := database.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		rankOpts = append(rankOpts, ranking.WithSuccessPredictor(database))
	}
	a.ranker = ranking.NewRanker(a.scorer, a.extractor, a.analyzer, log, rankOpts...)

	var generator assembly.DraftGenerator
	if a.llm != nil {
		generator = assembly.NewCachedGenerator(assembly.NewLLMGenerator(a.llm, log), a.cache)
	}
	a.assembler = assembly.NewAssembler(a.extractor, a.scorer, a.analyzer, generator, log)

	a.fetcher = fetch.NewFetcher(fetch.Options{
		Timeout:    cfg.Fetch.Timeout,
		UseBrowser: cfg.Fetch.UseBrowser,
	}, log)

	return a, nil
}

// skillBackend orders extraction backends: remote model, then LLM, then the vocabulary.
// The remote model is skipped while the monitor reports it down.
func (a *app) skillBackend() skills.Backend {
	var chain []skills.Backend
	if a.backend != nil {
		chain = append(chain, skills.NewCachedBackend(skills.NewGatedBackend(a.backend, a.monitor), a.cache))
	}
	if a.llm != nil {
		chain = append(chain, skills.NewCachedBackend(skills.NewLLMBackend(a.llm, a.log), a.cache))
	}
	chain = append(chain, skills.NewVocabularyBackend(nil))
	return skills.NewChain(a.log, chain...)
}

func (a *app) scorerOptions() []scoring.Option {
	opts := []scoring.Option{scoring.WithThreshold(a.cfg.Matching.Threshold)}
	switch {
	case a.backend != nil:
		opts = append(opts, scoring.WithPredictor(a.backend, a.monitor))
	case a.llm != nil:
		opts = append(opts, scoring.WithPredictor(scoring.NewLLMPredictor(a.llm, a.log), nil))
	}
	return opts
}

// Close releases every opened resource.
func (a *app) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			a.log.Warn("closing LLM client", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("closing cache", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

var errNoDatabase = errors.New("database.url (or DATABASE_URL) is required")
