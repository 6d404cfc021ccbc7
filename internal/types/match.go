package types

import "math"

// DefaultThreshold is the match threshold used when none is configured.
const DefaultThreshold = 0.6

// Label is the binary outcome of a match.
type Label string

const (
	// LabelMatch means the score is strictly above the threshold.
	LabelMatch Label = "Match"
	// LabelNoMatch means the score is at or below the threshold.
	LabelNoMatch Label = "No Match"
)

// ScoreSource tells which path produced a score.
type ScoreSource string

const (
	// SourceModel is the external scoring model.
	SourceModel ScoreSource = "model"
	// SourceFallback is the rule-based skill overlap scorer.
	SourceFallback ScoreSource = "fallback"
)

// MatchResult is a thresholded match score. Threshold is always the value that produced Label.
type MatchResult struct {
	Score     float64     `json:"score"`
	Label     Label       `json:"label"`
	Threshold float64     `json:"threshold"`
	Source    ScoreSource `json:"source"`
	// Clamped is set when the raw score fell outside [0,1] and was clamped.
	Clamped bool `json:"clamped,omitempty"`
}

// NewMatchResult clamps score into [0,1] and derives the label from threshold.
func NewMatchResult(score, threshold float64, source ScoreSource) MatchResult {
	clamped := ClampScore(score)
	return MatchResult{
		Score:     clamped,
		Label:     LabelFor(clamped, threshold),
		Threshold: threshold,
		Source:    source,
		Clamped:   clamped != score,
	}
}

// LabelFor returns LabelMatch iff score > threshold.
func LabelFor(score, threshold float64) Label {
	if score > threshold {
		return LabelMatch
	}
	return LabelNoMatch
}

// ClampScore limits v to [0,1]. NaN maps to 0.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
