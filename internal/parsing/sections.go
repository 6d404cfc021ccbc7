package parsing

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// sectionHeaders lists header spellings per section
var sectionHeaders = map[string][]string{
	types.SectionSummary:        {"summary", "professional summary", "profile", "about me", "objective", "career objective"},
	types.SectionExperience:     {"experience", "work experience", "employment history", "work history", "professional experience", "employment"},
	types.SectionEducation:      {"education", "educational background", "academic background", "qualifications"},
	types.SectionSkills:         {"skills", "technical skills", "core competencies", "key skills", "expertise", "proficiencies"},
	types.SectionProjects:       {"projects", "project experience", "key projects", "relevant projects"},
	types.SectionCertifications: {"certifications", "certificates", "professional certifications", "licenses"},
}

// maxHeaderWords bounds how long a line may be and still count as a section header.
const maxHeaderWords = 4

// Sections maps section name to its content.
type Sections map[string]string

// Get returns a section's content, empty if absent.
func (s Sections) Get(name string) string {
	return s[name]
}

// Ordered returns the present sections in rendering order.
func (s Sections) Ordered() []types.ResumeSection {
	out := make([]types.ResumeSection, 0, len(s))
	for _, name := range types.SectionOrder {
		if content, ok := s[name]; ok && strings.TrimSpace(content) != "" {
			out = append(out, types.ResumeSection{Name: name, Content: content})
		}
	}
	return out
}

// ExtractSections splits résumé text into sections using header lines.
// Text before the first header belongs to the summary. Contact lines are skipped.
// Without any header, four or more blank-line separated blocks are read as
// summary, experience, education and skills; otherwise everything is summary.
func ExtractSections(resume string) Sections {
	sections := make(Sections)
	if strings.TrimSpace(resume) == "" {
		return sections
	}

	current := types.SectionSummary
	var content []string
	foundHeader := false

	flush := func() {
		if len(content) > 0 {
			if prev, ok := sections[current]; ok && prev != "" {
				sections[current] = prev + "\n" + strings.Join(content, "\n")
			} else {
				sections[current] = strings.Join(content, "\n")
			}
			content = nil
		}
	}

	for _, raw := range strings.Split(resume, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if len(content) > 0 && content[len(content)-1] != "" {
				content = append(content, "")
			}
			continue
		}
		if name, ok := headerSection(line); ok {
			trimTrailingBlank(&content)
			flush()
			current = name
			foundHeader = true
			continue
		}
		if !foundHeader && isContactLine(line) {
			continue
		}
		content = append(content, line)
	}
	trimTrailingBlank(&content)
	flush()

	if foundHeader {
		return sections
	}

	blocks := splitBlocks(resume)
	if len(blocks) >= 4 {
		return Sections{
			types.SectionSummary:    blocks[0],
			types.SectionExperience: blocks[1],
			types.SectionEducation:  blocks[2],
			types.SectionSkills:     strings.Join(blocks[3:], "\n\n"),
		}
	}
	return Sections{types.SectionSummary: strings.TrimSpace(resume)}
}

// headerSection reports whether line is a section header and which section it opens.
func headerSection(line string) (string, bool) {
	cleaned := strings.ToLower(strings.Trim(line, " :-–—#*|"))
	if cleaned == "" || len(strings.Fields(cleaned)) > maxHeaderWords {
		return "", false
	}
	for _, name := range types.SectionOrder {
		for _, header := range sectionHeaders[name] {
			if cleaned == header {
				return name, true
			}
		}
	}
	return "", false
}

func splitBlocks(text string) []string {
	var blocks []string
	for _, b := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func trimTrailingBlank(lines *[]string) {
	for len(*lines) > 0 && (*lines)[len(*lines)-1] == "" {
		*lines = (*lines)[:len(*lines)-1]
	}
}
