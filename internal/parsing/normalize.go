// Package parsing turns heterogeneous résumé and job fields into normalized text and
// recognizes the structure (sections, contact details, requirements) inside that text.
package parsing

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// skillAliases maps common skill name variants to canonical lower-case names
var skillAliases = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"ecmascript": "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"angularjs":  "angular",
	"nodejs":     "node.js",
	"node":       "node.js",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"mongo":      "mongodb",
	"ml":         "machine learning",
	"ai":         "artificial intelligence",
	"nlp":        "natural language processing",
	"cicd":       "ci/cd",
	"ci cd":      "ci/cd",
	"ux":         "user experience",
	"ui":         "user interface",
	"sklearn":    "scikit-learn",

	"amazon web services":   "aws",
	"google cloud":          "gcp",
	"google cloud platform": "gcp",
	"restful api":           "rest api",
	"rest apis":             "rest api",
	"problem-solving":       "problem solving",
}

// Normalize concatenates field values in the given order with a single space.
// Missing and empty values contribute an empty string; the separator is kept so
// field positions stay stable.
func Normalize(fields []types.Field) types.TextBlob {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Value != nil {
			parts[i] = strings.TrimSpace(*f.Value)
		}
	}
	return types.TextBlob(strings.Join(parts, " "))
}

// ResumeFields returns the fixed field order used to flatten a candidate profile.
func ResumeFields(p types.CandidateProfile) []types.Field {
	skillNames := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			skillNames = append(skillNames, name)
		}
	}
	return []types.Field{
		types.F("headline", p.Headline),
		types.F("summary", p.Summary),
		types.F("skills", strings.Join(skillNames, ", ")),
		types.F("experience", p.Experience),
		types.F("education", p.Education),
		types.F("resume", p.Resume),
	}
}

// ResumeText flattens a candidate profile.
func ResumeText(p types.CandidateProfile) types.TextBlob {
	return Normalize(ResumeFields(p))
}

// JobText flattens a job description.
func JobText(title, description string) types.TextBlob {
	return Normalize([]types.Field{
		types.F("title", title),
		types.F("description", description),
	})
}

// IsBlank reports whether the blob has no content besides separators.
func IsBlank(t types.TextBlob) bool {
	return strings.TrimSpace(string(t)) == ""
}

// NormalizeSkillName lower-cases and trims a skill name and maps known aliases to
// their canonical name. Inner whitespace runs collapse to a single space.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(skillName)), " ")
	if normalized == "" {
		return ""
	}
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSkills canonicalizes names and drops empty and duplicate skills.
// The first occurrence of a name keeps its metadata.
func NormalizeSkills(skills []types.Skill) types.SkillSet {
	out := make(types.SkillSet, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))

	for _, s := range skills {
		name := NormalizeSkillName(s.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, types.Skill{
			Name:      name,
			Category:  strings.TrimSpace(s.Category),
			Relevance: types.ClampScore(s.Relevance),
		})
	}

	return out
}
