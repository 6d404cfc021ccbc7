package db

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/types"
)

const outcomesTable = "candidate_outcomes"

// Outcome is one recorded hiring decision.
type Outcome struct {
	CandidateID types.CandidateID `json:"candidate_id"`
	JobRef      string            `json:"job_ref,omitempty"`
	Hired       bool              `json:"hired"`
}

// OutcomeStats aggregates the recorded outcomes of one candidate.
type OutcomeStats struct {
	Total int64 `json:"total"`
	Hired int64 `json:"hired"`
}

// HireRate is Hired/Total, or 0 without history.
func (s OutcomeStats) HireRate() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Hired) / float64(s.Total)
}

// Factor maps the stats to a success factor in [0.5, 1]. Candidates without history get 1.0.
func (s OutcomeStats) Factor() float64 {
	if s.Total <= 0 {
		return 1.0
	}
	return 0.5 + 0.5*s.HireRate()
}

func insertOutcomeQuery(o Outcome) sq.InsertBuilder {
	return psql.Insert(outcomesTable).
		Columns("candidate_id", "job_ref", "hired").
		Values(string(o.CandidateID), o.JobRef, o.Hired).
		Suffix("RETURNING id")
}

func statsQuery(id types.CandidateID) sq.SelectBuilder {
	return psql.Select("COUNT(*)", "COUNT(*) FILTER (WHERE hired)").
		From(outcomesTable).
		Where(sq.Eq{"candidate_id": string(id)})
}

// RecordOutcome stores a hiring decision and returns its id.
func (db *DB) RecordOutcome(ctx context.Context, o Outcome) (uuid.UUID, error) {
	o.CandidateID = types.CandidateID(strings.TrimSpace(string(o.CandidateID)))
	if o.CandidateID == "" {
		return uuid.Nil, &types.InputError{Field: "candidate_id", Message: "must not be empty"}
	}

	query, args, err := insertOutcomeQuery(o).ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build outcome insert: %w", err)
	}

	var id uuid.UUID
	if err := db.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record outcome: %w", err)
	}

	db.log.Info("outcome recorded",
		zap.String(logger.FieldCandidateID, string(o.CandidateID)),
		zap.String("job_ref", o.JobRef),
		zap.Bool("hired", o.Hired))
	return id, nil
}

// Stats returns the outcome counts for a candidate.
func (db *DB) Stats(ctx context.Context, id types.CandidateID) (OutcomeStats, error) {
	query, args, err := statsQuery(id).ToSql()
	if err != nil {
		return OutcomeStats{}, fmt.Errorf("failed to build stats query: %w", err)
	}

	var stats OutcomeStats
	if err := db.q.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Hired); err != nil {
		return OutcomeStats{}, fmt.Errorf("failed to load outcome stats for %s: %w", id, err)
	}
	return stats, nil
}

// SuccessFactor implements ranking.SuccessPredictor.
func (db *DB) SuccessFactor(ctx context.Context, id types.CandidateID) (float64, error) {
	stats, err := db.Stats(ctx, id)
	if err != nil {
		return 1.0, err
	}
	return stats.Factor(), nil
}
