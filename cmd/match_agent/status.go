package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the scoring backend",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	Status string              `json:"status"`
	Model  types.BackendStatus `json:"model"`
	LLM    bool                `json:"llm"`
	Cache  string              `json:"cache"`
	DB     bool                `json:"database"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := statusOutput{
		Status: "unavailable",
		Model:  types.BackendStatus{State: types.BackendUnknown, LastError: "no scoring backend configured"},
		LLM:    a.llm != nil,
		Cache:  "memory",
		DB:     a.db != nil,
	}
	if a.cfg.Cache.RedisURL != "" {
		out.Cache = "redis"
	}
	if a.monitor != nil {
		out.Model = a.monitor.Probe(ctx)
		if out.Model.Ready() {
			out.Status = "ready"
		}
	}

	if verbose {
		a.printer.PrintStatus(out.Model)
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
