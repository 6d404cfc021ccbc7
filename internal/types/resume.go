package types

// Section names recognized in a résumé.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
)

// SectionOrder is the order sections are rendered in.
var SectionOrder = []string{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// CoreSections must be present for a complete résumé.
var CoreSections = []string{SectionSummary, SectionExperience, SectionEducation, SectionSkills}

// ResumeSection is one titled block of résumé text.
type ResumeSection struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Contact holds contact details found in a résumé.
type Contact struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Suggestion is an improvement hint for the résumé author.
type Suggestion struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Skills  []string `json:"skills,omitempty"`
}

// AssembledResume is a job-tailored résumé draft. When Partial is set, Failures lists
// the steps that did not complete and the matching fields are left empty.
type AssembledResume struct {
	PersonalizedResume string          `json:"personalizedResume"`
	Sections           []ResumeSection `json:"sections"`
	Contact            Contact         `json:"contact"`
	JobSkills          SkillSet        `json:"jobSkills"`
	HighlightedSkills  []string        `json:"highlightedSkills"`
	Match              *MatchResult    `json:"match,omitempty"`
	MatchScore         *float64        `json:"matchScore,omitempty"`
	Gaps               []SkillGap      `json:"gaps"`
	Suggestions        []Suggestion    `json:"suggestions"`
	ATSScore           float64         `json:"atsScore"`
	Partial            bool            `json:"partial"`
	Failures           []Failure       `json:"failures,omitempty"`
}
