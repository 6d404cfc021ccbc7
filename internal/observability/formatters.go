// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func more(sb *strings.Builder, total, shown int, noun string) {
	if total > shown {
		fmt.Fprintf(sb, "  ... and %d more %s\n", total-shown, noun)
	}
}

// PrintSkills outputs extracted skills with category and relevance.
func (p *Printer) PrintSkills(title string, skills types.SkillSet, reqs *types.Requirements) {
	var sb strings.Builder

	if reqs != nil {
		if reqs.ExperienceYears > 0 {
			fmt.Fprintf(&sb, "Experience: %d+ years\n", reqs.ExperienceYears)
		}
		if len(reqs.Education) > 0 {
			fmt.Fprintf(&sb, "Education:  %s\n", strings.Join(reqs.Education, ", "))
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
	}

	if len(skills) == 0 {
		sb.WriteString("No skills found\n")
	} else {
		fmt.Fprintf(&sb, "Skills (%d):\n", len(skills))
		for _, s := range skills {
			fmt.Fprintf(&sb, "  • %-24s %.2f", s.Name, s.Relevance)
			if s.Category != "" {
				fmt.Fprintf(&sb, "  %s", s.Category)
			}
			sb.WriteString("\n")
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs a match result.
func (p *Printer) PrintMatch(result types.MatchResult) {
	var sb strings.Builder
	icon := "✗"
	if result.Label == types.LabelMatch {
		icon = "✓"
	}
	fmt.Fprintf(&sb, "%s %s\n\n", icon, result.Label)
	fmt.Fprintf(&sb, "Score:     %.3f\n", result.Score)
	fmt.Fprintf(&sb, "Threshold: %.3f\n", result.Threshold)
	fmt.Fprintf(&sb, "Source:    %s", result.Source)
	if result.Clamped {
		sb.WriteString("\n(raw score was clamped into [0,1])")
	}
	p.printBox("MATCH RESULT", sb.String())
}

// PrintGaps outputs skill gaps grouped by tier.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintGaps(gaps []types.SkillGap) {
	if len(gaps) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO SKILL GAPS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	counts := types.CountByTier(gaps)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Critical: %d  Recommended: %d  Nice: %d\n\n",
		counts[types.TierCritical], counts[types.TierRecommended], counts[types.TierNice])

	for i, g := range gaps {
		fmt.Fprintf(&sb, "⚠ %s [%s]\n", g.Skill.Name, g.Tier)
		if g.Suggestion != "" {
			fmt.Fprintf(&sb, "  %s\n", g.Suggestion)
		}
		if i < len(gaps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SKILL GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the top ranked candidates.
func (p *Printer) PrintRanking(ranked types.RankedCandidates) {
	if len(ranked.Ranked) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total candidates ranked: %d\n\n", len(ranked.Ranked))

	count := min(len(ranked.Ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		rc := ranked.Ranked[i]
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, rc.CandidateID)
		fmt.Fprintf(&sb, "    Composite: %.3f", rc.CompositeScore)
		if rc.MatchResult != nil {
			fmt.Fprintf(&sb, " (match %.2f × success %.2f)", rc.MatchResult.Score, rc.SuccessFactor)
		}
		sb.WriteString("\n")
		if rc.Notes != "" {
			fmt.Fprintf(&sb, "    %s\n", rc.Notes)
		}
		for _, f := range rc.Failures {
			fmt.Fprintf(&sb, "    ! %s: %s\n", f.Step, f.Message)
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(ranked.Ranked) > maxItemsToShow {
		sb.WriteString("\n")
		more(&sb, len(ranked.Ranked), maxItemsToShow, "candidates")
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssembled outputs the summary of a tailored résumé.
func (p *Printer) PrintAssembled(out types.AssembledResume) {
	var sb strings.Builder

	if out.Match != nil {
		fmt.Fprintf(&sb, "Match:     %.3f (%s)\n", out.Match.Score, out.Match.Label)
	}
	fmt.Fprintf(&sb, "ATS score: %.2f\n", out.ATSScore)
	if len(out.HighlightedSkills) > 0 {
		fmt.Fprintf(&sb, "Highlight: %s\n", strings.Join(out.HighlightedSkills, ", "))
	}

	if len(out.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		count := min(len(out.Suggestions), maxItemsToShow)
		for _, s := range out.Suggestions[:count] {
			fmt.Fprintf(&sb, "  • %s\n", s.Message)
		}
		more(&sb, len(out.Suggestions), count, "suggestions")
	}

	if out.Partial {
		sb.WriteString("\nIncomplete steps:\n")
		for _, f := range out.Failures {
			fmt.Fprintf(&sb, "  ! %s: %s\n", f.Step, f.Message)
		}
	}

	p.printBox("TAILORED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatus outputs the scoring backend status.
func (p *Printer) PrintStatus(status types.BackendStatus) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "State:   %s\n", status.State)
	if !status.CheckedAt.IsZero() {
		fmt.Fprintf(&sb, "Checked: %s\n", status.CheckedAt.Format("2006-01-02 15:04:05"))
	}
	if status.LastError != "" {
		fmt.Fprintf(&sb, "Error:   %s\n", status.LastError)
	}
	p.printBox("SCORING BACKEND", strings.TrimSuffix(sb.String(), "\n"))
}
