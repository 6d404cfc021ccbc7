package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// jobSource selects where a job description comes from.
type jobSource struct {
	file string
	url  string
}

// jobFetcher downloads a posting.
type jobFetcher interface {
	JobDescription(ctx context.Context, url string) (types.TextBlob, error)
}

// load returns the normalized job text from a file or a posting URL.
func (s jobSource) load(ctx context.Context, f jobFetcher) (types.TextBlob, error) {
	switch {
	case s.file != "" && s.url != "":
		return "", fmt.Errorf("use either --job or --job-url, not both")
	case s.url != "":
		return f.JobDescription(ctx, s.url)
	case s.file != "":
		return readText(s.file, "jobDescription")
	}
	return "", fmt.Errorf("a job is required (--job or --job-url)")
}

// readText reads a text file, "-" meaning stdin, and normalizes it as the named field.
func readText(path, field string) (types.TextBlob, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	return parsing.Normalize([]types.Field{types.F(field, string(data))}), nil
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// decodeCandidates accepts a JSON array of profiles or an object with a "candidates" array.
func decodeCandidates(data []byte) ([]types.CandidateProfile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("candidates file is empty")
	}

	if data[0] == '[' {
		var list []types.CandidateProfile
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse candidates: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Candidates []types.CandidateProfile `json:"candidates"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse candidates: %w", err)
	}
	return wrapped.Candidates, nil
}

// parseSkillList splits "go, docker" into skills with no relevance.
func parseSkillList(list string) []types.Skill {
	var out []types.Skill
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, types.Skill{Name: name})
		}
	}
	return out
}

// writeJSON prints v as indented JSON to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
