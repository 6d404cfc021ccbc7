package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Extract skills and requirements from a job description",
	RunE:  runExtractSkills,
}

var extractJob jobSource

func init() {
	extractSkillsCmd.Flags().StringVar(&extractJob.file, "job", "", "Path to job description text (- for stdin)")
	extractSkillsCmd.Flags().StringVar(&extractJob.url, "job-url", "", "URL of a job posting to fetch")
	rootCmd.AddCommand(extractSkillsCmd)
}

type extractSkillsOutput struct {
	Skills          types.SkillSet `json:"skills"`
	ExperienceYears int            `json:"experienceYears"`
	Education       []string       `json:"education"`
}

func runExtractSkills(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := extractJob.load(ctx, a.fetcher)
	if err != nil {
		return err
	}
	if parsing.IsBlank(job) {
		return &types.InputError{Field: "jobDescription", Message: "job description is required"}
	}

	found, err := a.extractor.Extract(ctx, job)
	if err != nil {
		return err
	}
	reqs := parsing.ExtractRequirements(job)

	if verbose {
		a.printer.PrintSkills("JOB SKILLS", found, &reqs)
	}
	if found == nil {
		found = types.SkillSet{}
	}
	return writeJSON(cmd.OutOrStdout(), extractSkillsOutput{
		Skills:          found,
		ExperienceYears: reqs.ExperienceYears,
		Education:       reqs.Education,
	})
}
