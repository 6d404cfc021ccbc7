package types

// Tier is the severity of a skill gap.
type Tier string

const (
	// TierCritical gaps block the candidate for the job.
	TierCritical Tier = "critical"
	// TierRecommended gaps should be closed.
	TierRecommended Tier = "recommended"
	// TierNice gaps are optional.
	TierNice Tier = "nice"
)

// Rank orders tiers Critical < Recommended < Nice.
func (t Tier) Rank() int {
	switch t {
	case TierCritical:
		return 0
	case TierRecommended:
		return 1
	default:
		return 2
	}
}

// SkillGap is a required skill the candidate does not have.
type SkillGap struct {
	Skill      Skill  `json:"skill"`
	Tier       Tier   `json:"tier"`
	Suggestion string `json:"suggestion"`
}

// CountByTier tallies gaps per tier.
func CountByTier(gaps []SkillGap) map[Tier]int {
	counts := map[Tier]int{TierCritical: 0, TierRecommended: 0, TierNice: 0}
	for _, g := range gaps {
		counts[g.Tier]++
	}
	return counts
}
