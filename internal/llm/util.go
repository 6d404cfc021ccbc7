// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock strips markdown code fences and conversational text around the
// first JSON object or array in an LLM response.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// drop a language tag such as "json" on the opening fence
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}

	var extracted string
	if text[start] == '{' {
		extracted = extractJSONObject(text[start:])
	} else {
		extracted = extractJSONArray(text[start:])
	}
	if extracted == "" {
		return text
	}
	return extracted
}

// extractJSONObject returns the balanced {...} prefix of s, or "" if s does not start with one.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced [...] prefix of s, or "" if s does not start with one.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, closing byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
