// Package gaps diffs required against possessed skills into severity tiers.
package gaps

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

//go:embed suggestions.yaml
var defaultSuggestionsYAML []byte

// Default relevance bands.
const (
	DefaultCriticalBand    = 0.8
	DefaultRecommendedBand = 0.5
)

// Bands are the lower relevance bounds of the Critical and Recommended tiers.
type Bands struct {
	Critical    float64
	Recommended float64
}

// DefaultBands returns 0.8 / 0.5.
func DefaultBands() Bands {
	return Bands{Critical: DefaultCriticalBand, Recommended: DefaultRecommendedBand}
}

// Tier buckets a relevance.
func (b Bands) Tier(relevance float64) types.Tier {
	switch {
	case relevance >= b.Critical:
		return types.TierCritical
	case relevance >= b.Recommended:
		return types.TierRecommended
	default:
		return types.TierNice
	}
}

// Validate checks 0 <= Recommended <= Critical <= 1.
func (b Bands) Validate() error {
	if b.Recommended < 0 || b.Critical > 1 || b.Recommended > b.Critical {
		return fmt.Errorf("invalid relevance bands: recommended %.2f, critical %.2f", b.Recommended, b.Critical)
	}
	return nil
}

// Analyzer computes skill gaps. It never fails on well-formed input.
type Analyzer struct {
	bands       Bands
	suggestions map[string]string
}

// NewAnalyzer builds an analyzer. A nil suggestions table uses the embedded one.
func NewAnalyzer(bands Bands, suggestions map[string]string) *Analyzer {
	if suggestions == nil {
		suggestions = DefaultSuggestions()
	}
	return &Analyzer{bands: bands, suggestions: suggestions}
}

// DefaultSuggestions parses the embedded suggestion table.
func DefaultSuggestions() map[string]string {
	table, err := ParseSuggestions(defaultSuggestionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded suggestions.yaml: %v", err))
	}
	return table
}

// ParseSuggestions reads a YAML map of skill name to suggestion. Keys are normalized.
func ParseSuggestions(data []byte) (map[string]string, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	table := make(map[string]string, len(raw))
	for name, suggestion := range raw {
		if key := parsing.NormalizeSkillName(name); key != "" {
			table[key] = suggestion
		}
	}
	return table, nil
}

// Analyze returns the required skills missing from possessed, Critical first, then
// Recommended, then Nice. Within a tier the required order is kept.
func (a *Analyzer) Analyze(required, possessed []types.Skill) []types.SkillGap {
	have := parsing.NormalizeSkills(possessed).Keys()

	gaps := make([]types.SkillGap, 0)
	for _, skill := range parsing.NormalizeSkills(required) {
		if _, ok := have[skill.Key()]; ok {
			continue
		}
		gaps = append(gaps, types.SkillGap{
			Skill:      skill,
			Tier:       a.bands.Tier(skill.Relevance),
			Suggestion: a.Suggest(skill.Name),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Tier.Rank() < gaps[j].Tier.Rank()
	})
	return gaps
}

// Suggest returns the remediation hint for a skill.
func (a *Analyzer) Suggest(name string) string {
	key := parsing.NormalizeSkillName(name)
	if s, ok := a.suggestions[key]; ok {
		return s
	}
	return fmt.Sprintf("seek training in %s", key)
}

// Bands returns the analyzer's bands.
func (a *Analyzer) Bands() Bands {
	return a.bands
}
