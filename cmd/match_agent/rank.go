package main

import (
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates for a job",
	Long: `Rank candidates for a job by match score weighted with historical hiring success.
--candidates is a JSON array of profiles ({"id", "name", "summary", "experience",
"skills", "resume", ...}) or an object with a "candidates" array.`,
	RunE: runRank,
}

var (
	rankCandidates string
	rankJob        jobSource
)

func init() {
	rankCmd.Flags().StringVar(&rankCandidates, "candidates", "", "Path to candidate profiles JSON (- for stdin)")
	rankCmd.Flags().StringVar(&rankJob.file, "job", "", "Path to job description text")
	rankCmd.Flags().StringVar(&rankJob.url, "job-url", "", "URL of a job posting to fetch")
	_ = rankCmd.MarkFlagRequired("candidates")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := readFile(rankCandidates)
	if err != nil {
		return err
	}
	candidates, err := decodeCandidates(data)
	if err != nil {
		return err
	}
	job, err := rankJob.load(ctx, a.fetcher)
	if err != nil {
		return err
	}

	ranked, err := a.ranker.Rank(ctx, job, candidates)
	if err != nil {
		return err
	}

	if verbose {
		a.printer.PrintRanking(ranked)
	}
	return writeJSON(cmd.OutOrStdout(), ranked)
}
