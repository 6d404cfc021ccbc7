package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/types"
)

var outcomeCmd = &cobra.Command{
	Use:   "outcome",
	Short: "Record a hiring outcome for a candidate",
	Long: `Record whether a candidate was hired for a job. Recorded outcomes feed the
historical success factor used by rank.`,
	RunE: runOutcome,
}

var (
	outcomeCandidate string
	outcomeJobRef    string
	outcomeHired     bool
)

func init() {
	outcomeCmd.Flags().StringVar(&outcomeCandidate, "candidate-id", "", "Candidate id")
	outcomeCmd.Flags().StringVar(&outcomeJobRef, "job-ref", "", "Job reference, e.g. a requisition id")
	outcomeCmd.Flags().BoolVar(&outcomeHired, "hired", false, "The candidate was hired")
	_ = outcomeCmd.MarkFlagRequired("candidate-id")
	rootCmd.AddCommand(outcomeCmd)
}

func runOutcome(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.db == nil {
		return errNoDatabase
	}

	id, err := a.db.RecordOutcome(ctx, db.Outcome{
		CandidateID: types.CandidateID(outcomeCandidate),
		JobRef:      outcomeJobRef,
		Hired:       outcomeHired,
	})
	if err != nil {
		return err
	}

	stats, err := a.db.Stats(ctx, types.CandidateID(outcomeCandidate))
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"id":            id,
		"candidateId":   outcomeCandidate,
		"total":         stats.Total,
		"hired":         stats.Hired,
		"successFactor": stats.Factor(),
	})
}
