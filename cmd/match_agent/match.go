package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a résumé against a job description or a skill list",
	Long: `Score a résumé against a job. The job is either a description (--job / --job-url)
or a comma separated skill list (--skills). The result is Match when the score is
strictly above the configured threshold.`,
	RunE: runMatch,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Print the Match / No Match prediction for a résumé and a job",
	RunE:  runEvaluate,
}

var (
	matchResume string
	matchSkills string
	matchJob    jobSource
)

func init() {
	for _, c := range []*cobra.Command{matchCmd, evaluateCmd} {
		c.Flags().StringVar(&matchResume, "resume", "", "Path to résumé text (- for stdin)")
		c.Flags().StringVar(&matchJob.file, "job", "", "Path to job description text")
		c.Flags().StringVar(&matchJob.url, "job-url", "", "URL of a job posting to fetch")
		_ = c.MarkFlagRequired("resume")
		rootCmd.AddCommand(c)
	}
	matchCmd.Flags().StringVar(&matchSkills, "skills", "", "Comma separated job skills instead of a job description")
}

func scoreResume(cmd *cobra.Command) (*app, types.MatchResult, error) {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return nil, types.MatchResult{}, err
	}

	resume, err := readText(matchResume, "resume")
	if err != nil {
		return a, types.MatchResult{}, err
	}

	if matchSkills != "" {
		result, err := a.scorer.ScoreSkills(ctx, resume, parseSkillList(matchSkills))
		return a, result, err
	}

	job, err := matchJob.load(ctx, a.fetcher)
	if err != nil {
		return a, types.MatchResult{}, err
	}
	result, err := a.scorer.Score(ctx, resume, job)
	return a, result, err
}

func runMatch(cmd *cobra.Command, _ []string) error {
	a, result, err := scoreResume(cmd)
	if a != nil {
		defer a.Close()
	}
	if err != nil {
		return err
	}

	if verbose {
		a.printer.PrintMatch(result)
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	a, result, err := scoreResume(cmd)
	if a != nil {
		defer a.Close()
	}
	if err != nil {
		return err
	}

	if verbose {
		a.printer.PrintMatch(result)
	}
	return writeJSON(cmd.OutOrStdout(), map[string]types.Label{"prediction": result.Label})
}
