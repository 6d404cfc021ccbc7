package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

var experiencePattern = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)(?:\s+of)?(?:\s+experience)?`)

// educationLevels maps a keyword to the degree it implies, in reporting order
var educationLevels = []struct {
	keyword string
	degree  string
}{
	{"bachelor", "Bachelor's Degree"},
	{"master", "Master's Degree"},
	{"phd", "PhD"},
	{"doctorate", "PhD"},
	{"mba", "MBA"},
	{"associate", "Associate's Degree"},
	{"high school", "High School Diploma"},
}

// ExtractRequirements mines the years of experience and education levels a job text asks for.
// ExperienceYears is the largest "N years" mention, 0 when none.
func ExtractRequirements(text types.TextBlob) types.Requirements {
	lower := strings.ToLower(string(text))

	years := 0
	for _, m := range experiencePattern.FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > years && n < 60 {
			years = n
		}
	}

	education := make([]string, 0)
	seen := make(map[string]bool)
	for _, level := range educationLevels {
		if !strings.Contains(lower, level.keyword) || seen[level.degree] {
			continue
		}
		seen[level.degree] = true
		education = append(education, level.degree)
	}

	return types.Requirements{
		ExperienceYears: years,
		Education:       education,
	}
}
