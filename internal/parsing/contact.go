package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(\+\d{1,3}[\s-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	locationPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)?,\s*(?:[A-Z]{2}\b|[A-Z][a-zA-Z]+)`)
)

// ExtractContact finds the name, email, phone and location in a résumé.
// The name is the first non-empty line when it does not look like contact data.
func ExtractContact(resume string) types.Contact {
	var c types.Contact

	for _, line := range strings.Split(resume, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !isContactLine(line) && len(strings.Fields(line)) <= 5 {
			if _, isHeader := headerSection(line); !isHeader {
				c.Name = line
			}
		}
		break
	}

	c.Email = emailPattern.FindString(resume)
	c.Phone = strings.TrimSpace(phonePattern.FindString(resume))
	c.Location = locationPattern.FindString(resume)
	return c
}

// Completeness is the fraction of contact fields that were found.
func Completeness(c types.Contact) float64 {
	found := 0
	for _, v := range []string{c.Name, c.Email, c.Phone, c.Location} {
		if v != "" {
			found++
		}
	}
	return float64(found) / 4
}

func isContactLine(line string) bool {
	return emailPattern.MatchString(line) || phonePattern.MatchString(line)
}
