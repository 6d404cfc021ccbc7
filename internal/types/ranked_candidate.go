package types

// RankedCandidates is the ordered output of a ranking run.
type RankedCandidates struct {
	Ranked []RankedCandidate `json:"ranked"`
}

// RankedCandidate is one candidate with its composite score and breakdown.
type RankedCandidate struct {
	CandidateID    CandidateID  `json:"candidateId"`
	CompositeScore float64      `json:"compositeScore"`
	MatchResult    *MatchResult `json:"matchResult,omitempty"`
	SuccessFactor  float64      `json:"successFactor"`
	Gaps           []SkillGap   `json:"gaps"`
	Notes          string       `json:"notes,omitempty"`
	// Failures names the sub-computations that did not complete for this candidate.
	Failures []Failure `json:"failures,omitempty"`
}

// Failure records a sub-computation that failed and why.
type Failure struct {
	Step        string `json:"step"`
	Message     string `json:"message"`
	Unavailable bool   `json:"unavailable"`
}
