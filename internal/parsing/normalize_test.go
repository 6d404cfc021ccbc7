package parsing

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		fields   []types.Field
		expected types.TextBlob
	}{
		{
			name:     "Fields joined in order",
			fields:   []types.Field{types.F("title", "Backend Engineer"), types.F("description", "Go and SQL")},
			expected: "Backend Engineer Go and SQL",
		},
		{
			name:     "Missing field keeps separator",
			fields:   []types.Field{types.F("a", "one"), types.Missing("b"), types.F("c", "three")},
			expected: "one  three",
		},
		{
			name:     "Empty value keeps separator",
			fields:   []types.Field{types.F("a", ""), types.F("b", "two")},
			expected: " two",
		},
		{
			name:     "Values are trimmed",
			fields:   []types.Field{types.F("a", "  padded \n")},
			expected: "padded",
		},
		{
			name:     "No fields",
			fields:   nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.fields))
		})
	}
}

func TestResumeText_FieldOrder(t *testing.T) {
	profile := types.CandidateProfile{
		ID:         "1",
		Summary:    "Engineer",
		Experience: "Built APIs",
		Skills:     []types.Skill{{Name: "Go"}, {Name: " "}, {Name: "SQL"}},
	}

	assert.Equal(t, types.TextBlob(" Engineer Go, SQL Built APIs  "), ResumeText(profile))
	assert.True(t, IsBlank(ResumeText(types.CandidateProfile{ID: "2"})))
}

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Golang", "go"},
		{"GOLANG", "go"},
		{"go lang", "go"},
		{"JS", "javascript"},
		{"k8s", "kubernetes"},
		{"React.js", "react"},
		{"reactjs", "react"},
		{"nodejs", "node.js"},
		{"Python", "python"},
		{"  Machine   Learning ", "machine learning"},
		{"Distributed Systems", "distributed systems"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkills_FirstOccurrenceWins(t *testing.T) {
	in := []types.Skill{
		{Name: "React", Category: "framework", Relevance: 0.9},
		{Name: "  ", Relevance: 1},
		{Name: "reactjs", Category: "other", Relevance: 0.1},
		{Name: "Python", Relevance: 1.4},
		{Name: "python", Relevance: 0.2},
	}

	out := NormalizeSkills(in)

	assert.Equal(t, types.SkillSet{
		{Name: "react", Category: "framework", Relevance: 0.9},
		{Name: "python", Relevance: 1},
	}, out)
}

func TestExtractRequirements(t *testing.T) {
	req := ExtractRequirements("Need React and Python, 5 years. 3+ yrs of Go. Bachelor or Master degree, PhD a plus")

	assert.Equal(t, 5, req.ExperienceYears)
	assert.Equal(t, []string{"Bachelor's Degree", "Master's Degree", "PhD"}, req.Education)

	empty := ExtractRequirements("")
	assert.Equal(t, 0, empty.ExperienceYears)
	assert.Empty(t, empty.Education)
}
