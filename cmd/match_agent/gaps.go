package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/types"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "List job skills missing from a résumé, by severity",
	RunE:  runGaps,
}

var (
	gapsResume string
	gapsJob    jobSource
)

func init() {
	gapsCmd.Flags().StringVar(&gapsResume, "resume", "", "Path to résumé text (- for stdin)")
	gapsCmd.Flags().StringVar(&gapsJob.file, "job", "", "Path to job description text")
	gapsCmd.Flags().StringVar(&gapsJob.url, "job-url", "", "URL of a job posting to fetch")
	_ = gapsCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	resume, err := readText(gapsResume, "resume")
	if err != nil {
		return err
	}
	job, err := gapsJob.load(ctx, a.fetcher)
	if err != nil {
		return err
	}

	var required, possessed types.SkillSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if required, err = a.extractor.Extract(gctx, job); err != nil {
			return fmt.Errorf("job skills: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if possessed, err = a.extractor.Extract(gctx, resume); err != nil {
			return fmt.Errorf("résumé skills: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	found := a.analyzer.Analyze(required, possessed)
	if verbose {
		a.printer.PrintGaps(found)
	}
	if found == nil {
		found = []types.SkillGap{}
	}
	return writeJSON(cmd.OutOrStdout(), map[string][]types.SkillGap{"gaps": found})
}
