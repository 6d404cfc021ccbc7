package assembly

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// sectionTitles are the headings used when recombining a résumé.
var sectionTitles = map[string]string{
	types.SectionSummary:        "PROFESSIONAL SUMMARY",
	types.SectionExperience:     "WORK EXPERIENCE",
	types.SectionEducation:      "EDUCATION",
	types.SectionSkills:         "SKILLS",
	types.SectionProjects:       "PROJECTS",
	types.SectionCertifications: "CERTIFICATIONS",
}

// splitMatched partitions job skill names into those the candidate has and those missing,
// keeping job order.
func splitMatched(jobSkills, possessed types.SkillSet) (matched, missing []string) {
	have := possessed.Keys()
	for _, s := range jobSkills {
		if _, ok := have[types.SkillKey(s.Name)]; ok {
			matched = append(matched, s.Name)
		} else {
			missing = append(missing, s.Name)
		}
	}
	return matched, missing
}

// personalizeSkills lists the skills section as a comma-separated line with
// job-relevant skills first. An empty section is filled from possessed.
func personalizeSkills(content string, jobSkills, possessed types.SkillSet) string {
	items := splitSkillItems(content)
	if len(items) == 0 {
		return strings.Join(possessed.Names(), ", ")
	}

	var matched, other []string
	for _, item := range items {
		if mentionsAny(item, jobSkills) {
			matched = append(matched, item)
		} else {
			other = append(other, item)
		}
	}
	return strings.Join(append(matched, other...), ", ")
}

func splitSkillItems(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line == "" {
			continue
		}
		parts := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '•' || r == '|'
		})
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
	}
	return items
}

// personalizeExperience orders blank-line separated entries by how many job skills
// they mention. Entries with equal counts keep their original order.
func personalizeExperience(content string, jobSkills types.SkillSet) string {
	paragraphs := splitParagraphs(content)
	if len(paragraphs) <= 1 {
		return strings.TrimSpace(content)
	}

	scores := make(map[int]int, len(paragraphs))
	idx := make([]int, len(paragraphs))
	for i, p := range paragraphs {
		idx[i] = i
		for _, s := range jobSkills {
			if mentions(p, s.Name) {
				scores[i]++
			}
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ordered := make([]string, len(idx))
	for i, j := range idx {
		ordered[i] = paragraphs[j]
	}
	return strings.Join(ordered, "\n\n")
}

func splitParagraphs(content string) []string {
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// combineSections renders sections under fixed titles in SectionOrder, after the
// contact header when one is known.
func combineSections(sections parsing.Sections, contact types.Contact) string {
	var b strings.Builder

	if contact.Name != "" {
		b.WriteString(contact.Name)
		b.WriteString("\n")
	}

	var details []string
	for _, v := range []string{contact.Email, contact.Phone, contact.Location} {
		if v != "" {
			details = append(details, v)
		}
	}
	if len(details) > 0 {
		b.WriteString(strings.Join(details, " | "))
		b.WriteString("\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	for _, s := range sections.Ordered() {
		title := sectionTitles[s.Name]
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(title)))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func mentionsAny(text string, skills types.SkillSet) bool {
	for _, s := range skills {
		if mentions(text, s.Name) {
			return true
		}
	}
	return false
}

// mentions reports whether skill occurs in text as a whole word, ignoring case.
func mentions(text, skill string) bool {
	text = strings.ToLower(text)
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], skill)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(skill)
		if boundary(text, start-1) && boundary(text, end) {
			return true
		}
		from = start + 1
	}
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := rune(text[i])
	return !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '+' || c == '#')
}
