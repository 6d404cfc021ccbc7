package assembly

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Suggestion types.
const (
	SuggestMissingSkills        = "missing_skills"
	SuggestImproveSummary       = "improve_summary"
	SuggestQuantifyAchievements = "quantify_achievements"
)

const (
	maxMissingSuggestions = 5
	minSummaryLength      = 100
)

// ATS score weights.
const (
	weightCoverage = 0.6
	weightSections = 0.3
	weightContact  = 0.1
)

var quantifiedRe = regexp.MustCompile(`\d+\s*%|\d+\s+years`)

// buildSuggestions lists improvements for the résumé author.
func buildSuggestions(gaps []types.SkillGap, sections parsing.Sections) []types.Suggestion {
	out := []types.Suggestion{}

	if len(gaps) > 0 {
		top := gaps
		if len(top) > maxMissingSuggestions {
			top = top[:maxMissingSuggestions]
		}
		names := make([]string, len(top))
		for i, g := range top {
			names[i] = g.Skill.Name
		}
		out = append(out, types.Suggestion{
			Type:    SuggestMissingSkills,
			Message: "Add these key skills to your résumé: " + strings.Join(names, ", "),
			Skills:  names,
		})
	}

	if utf8.RuneCountInString(strings.TrimSpace(sections.Get(types.SectionSummary))) < minSummaryLength {
		out = append(out, types.Suggestion{
			Type:    SuggestImproveSummary,
			Message: "Expand your professional summary to highlight relevant experience and key skills",
		})
	}

	if exp := sections.Get(types.SectionExperience); strings.TrimSpace(exp) != "" && !quantifiedRe.MatchString(exp) {
		out = append(out, types.Suggestion{
			Type:    SuggestQuantifyAchievements,
			Message: "Quantify your achievements with numbers, for example 'cut latency by 30%'",
		})
	}
	return out
}

// ATSScore rates how well a résumé passes automated screening:
// 0.6 × job skill coverage + 0.3 × core section completeness + 0.1 × contact completeness.
func ATSScore(jobSkills, possessed types.SkillSet, sections parsing.Sections, contact types.Contact) float64 {
	coverage := 0.0
	if len(jobSkills) > 0 {
		matched, _ := splitMatched(jobSkills, possessed)
		coverage = float64(len(matched)) / float64(len(jobSkills))
	}

	present := 0
	for _, name := range types.CoreSections {
		if strings.TrimSpace(sections.Get(name)) != "" {
			present++
		}
	}
	completeness := float64(present) / float64(len(types.CoreSections))

	return types.ClampScore(weightCoverage*coverage + weightSections*completeness + weightContact*parsing.Completeness(contact))
}
