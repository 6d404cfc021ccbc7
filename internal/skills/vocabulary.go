package skills

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Skill categories.
const (
	CategoryLanguage  = "language"
	CategoryFramework = "framework"
	CategoryDatabase  = "database"
	CategoryCloud     = "cloud"
	CategoryDevOps    = "devops"
	CategoryData      = "data"
	CategorySoftSkill = "soft_skill"
	CategoryBusiness  = "business"
	CategoryOther     = "other"
)

// Term is one vocabulary entry. Forms are extra surface spellings that map to Name.
type Term struct {
	Name     string
	Category string
	Forms    []string
}

// DefaultVocabulary is the built-in list of recognized skills.
var DefaultVocabulary = []Term{
	{Name: "javascript", Category: CategoryLanguage, Forms: []string{"js", "ecmascript"}},
	{Name: "typescript", Category: CategoryLanguage},
	{Name: "python", Category: CategoryLanguage},
	{Name: "java", Category: CategoryLanguage},
	{Name: "go", Category: CategoryLanguage, Forms: []string{"golang"}},
	{Name: "rust", Category: CategoryLanguage},
	{Name: "ruby", Category: CategoryLanguage},
	{Name: "php", Category: CategoryLanguage},
	{Name: "kotlin", Category: CategoryLanguage},
	{Name: "swift", Category: CategoryLanguage},
	{Name: "scala", Category: CategoryLanguage},
	{Name: "c++", Category: CategoryLanguage},
	{Name: "c#", Category: CategoryLanguage},
	{Name: "sql", Category: CategoryLanguage},

	{Name: "react", Category: CategoryFramework, Forms: []string{"react.js", "reactjs"}},
	{Name: "angular", Category: CategoryFramework, Forms: []string{"angularjs"}},
	{Name: "vue", Category: CategoryFramework, Forms: []string{"vue.js", "vuejs"}},
	{Name: "node.js", Category: CategoryFramework, Forms: []string{"nodejs"}},
	{Name: "express", Category: CategoryFramework, Forms: []string{"express.js", "expressjs"}},
	{Name: "django", Category: CategoryFramework},
	{Name: "flask", Category: CategoryFramework},
	{Name: "spring", Category: CategoryFramework, Forms: []string{"spring boot"}},
	{Name: "graphql", Category: CategoryFramework},
	{Name: "rest api", Category: CategoryFramework, Forms: []string{"restful api", "rest apis", "restful"}},
	{Name: "microservices", Category: CategoryFramework},

	{Name: "postgresql", Category: CategoryDatabase, Forms: []string{"postgres"}},
	{Name: "mysql", Category: CategoryDatabase},
	{Name: "mongodb", Category: CategoryDatabase, Forms: []string{"mongo"}},
	{Name: "redis", Category: CategoryDatabase},
	{Name: "nosql", Category: CategoryDatabase},
	{Name: "elasticsearch", Category: CategoryDatabase},

	{Name: "aws", Category: CategoryCloud, Forms: []string{"amazon web services"}},
	{Name: "azure", Category: CategoryCloud},
	{Name: "gcp", Category: CategoryCloud, Forms: []string{"google cloud platform", "google cloud"}},
	{Name: "serverless", Category: CategoryCloud},

	{Name: "docker", Category: CategoryDevOps},
	{Name: "kubernetes", Category: CategoryDevOps, Forms: []string{"k8s"}},
	{Name: "terraform", Category: CategoryDevOps},
	{Name: "ci/cd", Category: CategoryDevOps, Forms: []string{"cicd"}},
	{Name: "git", Category: CategoryDevOps},
	{Name: "linux", Category: CategoryDevOps},

	{Name: "machine learning", Category: CategoryData, Forms: []string{"ml"}},
	{Name: "artificial intelligence", Category: CategoryData, Forms: []string{"ai"}},
	{Name: "data science", Category: CategoryData},
	{Name: "big data", Category: CategoryData},
	{Name: "hadoop", Category: CategoryData},
	{Name: "spark", Category: CategoryData},
	{Name: "kafka", Category: CategoryData},
	{Name: "tableau", Category: CategoryData},
	{Name: "power bi", Category: CategoryData},
	{Name: "excel", Category: CategoryData},

	{Name: "leadership", Category: CategorySoftSkill},
	{Name: "communication", Category: CategorySoftSkill},
	{Name: "teamwork", Category: CategorySoftSkill},
	{Name: "problem solving", Category: CategorySoftSkill, Forms: []string{"problem-solving"}},
	{Name: "critical thinking", Category: CategorySoftSkill},

	{Name: "agile", Category: CategoryBusiness},
	{Name: "scrum", Category: CategoryBusiness},
	{Name: "project management", Category: CategoryBusiness},
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?;](?:\s|$)|\n+`)
	requiredCue   = regexp.MustCompile(`\b(required|requires|require|must|need|needs|essential|mandatory)\b`)
	optionalCue   = regexp.MustCompile(`\b(nice to have|nice-to-have|preferred|bonus|plus|optional|familiarity)\b`)
)

// VocabularyBackend finds known skills by whole-word matching against a fixed vocabulary.
type VocabularyBackend struct {
	terms    []Term
	patterns []*regexp.Regexp
}

// NewVocabularyBackend compiles a matcher for terms. A nil list uses DefaultVocabulary.
func NewVocabularyBackend(terms []Term) *VocabularyBackend {
	if terms == nil {
		terms = DefaultVocabulary
	}
	b := &VocabularyBackend{terms: terms, patterns: make([]*regexp.Regexp, len(terms))}
	for i, t := range terms {
		forms := append([]string{t.Name}, t.Forms...)
		// longest first so "spring boot" wins over "spring"
		sort.SliceStable(forms, func(a, c int) bool { return len(forms[a]) > len(forms[c]) })
		quoted := make([]string, len(forms))
		for j, f := range forms {
			quoted[j] = regexp.QuoteMeta(strings.ToLower(f))
		}
		b.patterns[i] = regexp.MustCompile(strings.Join(quoted, "|"))
	}
	return b
}

// Name identifies the backend in logs and cache keys.
func (b *VocabularyBackend) Name() string {
	return "vocabulary"
}

// ExtractSkills returns every vocabulary term mentioned in text, ordered by first mention.
// Relevance grows with the mention count and is shifted by required or optional cues
// in the sentences that mention the skill.
func (b *VocabularyBackend) ExtractSkills(_ context.Context, text string) ([]types.Skill, error) {
	lower := strings.ToLower(text)
	sentences := sentenceBounds(lower)

	type hit struct {
		skill types.Skill
		first int
	}
	var hits []hit

	for i, t := range b.terms {
		positions := wordMatches(b.patterns[i], lower)
		if len(positions) == 0 {
			continue
		}

		relevance := 0.4 + 0.2*float64(len(positions))
		required, optional := false, true
		for _, pos := range positions {
			s := sentenceAt(lower, sentences, pos)
			if requiredCue.MatchString(s) {
				required = true
			}
			if !optionalCue.MatchString(s) {
				optional = false
			}
		}
		switch {
		case required:
			relevance += 0.2
		case optional:
			relevance -= 0.2
		}

		hits = append(hits, hit{
			skill: types.Skill{Name: t.Name, Category: t.Category, Relevance: types.ClampScore(relevance)},
			first: positions[0],
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].first < hits[j].first })

	out := make([]types.Skill, len(hits))
	for i, h := range hits {
		out[i] = h.skill
	}
	return out, nil
}

// Category returns the vocabulary category of a canonical skill name.
func (b *VocabularyBackend) Category(name string) (string, bool) {
	for _, t := range b.terms {
		if t.Name == name {
			return t.Category, true
		}
	}
	return "", false
}

// wordMatches returns the start offsets of matches that are not part of a longer word.
func wordMatches(re *regexp.Regexp, text string) []int {
	var out []int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if joinedBefore(text, loc[0]) || joinedAfter(text, loc[1]) {
			continue
		}
		out = append(out, loc[0])
	}
	return out
}

// joinedBefore reports whether the match starting at i continues a word, as "js" in "node.js".
func joinedBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	if isWordByte(text[i-1]) {
		return true
	}
	return text[i-1] == '.' && i >= 2 && isWordByte(text[i-2])
}

// joinedAfter reports whether the match ending at j runs into a word.
func joinedAfter(text string, j int) bool {
	if j >= len(text) {
		return false
	}
	if isWordByte(text[j]) {
		return true
	}
	return text[j] == '.' && j+1 < len(text) && isWordByte(text[j+1])
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '#' || c == '_'
}

// sentenceBounds returns the end offset of every sentence in text.
func sentenceBounds(text string) []int {
	var ends []int
	for _, loc := range sentenceSplit.FindAllStringIndex(text, -1) {
		ends = append(ends, loc[0])
	}
	return append(ends, len(text))
}

func sentenceAt(text string, ends []int, pos int) string {
	start := 0
	for _, end := range ends {
		if pos < end {
			return text[start:end]
		}
		start = end
	}
	return text[start:]
}
