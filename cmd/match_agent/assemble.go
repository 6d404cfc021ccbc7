package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/assembly"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Tailor a résumé to a job",
	Long: `Reorder and augment a résumé for a job: matched skills first, experience sorted by
relevance, a summary mentioning the job's key skills, gap suggestions and an ATS score.
Failed steps are reported in "failures" and the result is marked partial.`,
	RunE: runAssemble,
}

var (
	assembleResume    string
	assembleCandidate string
	assembleSkills    string
	assembleOut       string
	assembleJob       jobSource
)

func init() {
	assembleCmd.Flags().StringVar(&assembleResume, "resume", "", "Path to résumé text (- for stdin)")
	assembleCmd.Flags().StringVar(&assembleCandidate, "candidate", "", "Path to a candidate profile JSON")
	assembleCmd.Flags().StringVar(&assembleSkills, "skills", "", "Comma separated job skills, skips extraction")
	assembleCmd.Flags().StringVarP(&assembleOut, "out", "o", "", "Write the personalized résumé text to this file")
	assembleCmd.Flags().StringVar(&assembleJob.file, "job", "", "Path to job description text")
	assembleCmd.Flags().StringVar(&assembleJob.url, "job-url", "", "URL of a job posting to fetch")
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var req assembly.Request
	if assembleResume != "" {
		if req.Resume, err = readText(assembleResume, "resume"); err != nil {
			return err
		}
	}
	if assembleCandidate != "" {
		data, err := readFile(assembleCandidate)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &req.Profile); err != nil {
			return fmt.Errorf("failed to parse candidate profile: %w", err)
		}
	}
	if assembleSkills != "" {
		req.JobSkills = parseSkillList(assembleSkills)
	}
	if req.Job, err = assembleJob.load(ctx, a.fetcher); err != nil {
		return err
	}

	out, err := a.assembler.Assemble(ctx, req)
	if err != nil {
		return err
	}

	if verbose {
		a.printer.PrintAssembled(out)
	}
	if assembleOut != "" {
		if err := os.WriteFile(assembleOut, []byte(out.PersonalizedResume), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", assembleOut, err)
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
