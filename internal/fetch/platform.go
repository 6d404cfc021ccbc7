package fetch

import (
	"net/url"
	"strings"
)

// Board is a known job board.
type Board string

// Boards with dedicated selectors.
const (
	BoardGreenhouse Board = "greenhouse"
	BoardLever      Board = "lever"
	BoardWorkday    Board = "workday"
	BoardUnknown    Board = "unknown"
)

var boardHosts = []struct {
	suffix string
	board  Board
}{
	{"greenhouse.io", BoardGreenhouse},
	{"lever.co", BoardLever},
	{"myworkdayjobs.com", BoardWorkday},
	{"workday.com", BoardWorkday},
}

// DetectBoard identifies the job board from a posting URL.
func DetectBoard(rawURL string) Board {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return BoardUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range boardHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.board
		}
	}
	return BoardUnknown
}

// ContentSelectors returns description selectors for the board, most specific first.
func (b Board) ContentSelectors() []string {
	switch b {
	case BoardGreenhouse:
		return []string{".job__description.body", ".job__description", ".job-description__content", "#content"}
	case BoardLever:
		return []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"}
	case BoardWorkday:
		return []string{"[data-automation-id='jobDescription']", ".job-description"}
	}
	return JobPostingSelectors()
}

// application forms, EEO statements and share widgets
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// NoiseSelectors returns elements to drop before extracting text.
func (b Board) NoiseSelectors() []string {
	noise := append([]string(nil), commonNoise...)
	switch b {
	case BoardGreenhouse:
		noise = append(noise, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply")
	case BoardLever:
		noise = append(noise, ".apply-section", ".lever-application-form", ".posting-apply")
	case BoardWorkday:
		noise = append(noise, "[data-automation-id='applyButton']", ".application-section")
	}
	return noise
}
