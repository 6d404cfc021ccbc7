// Package prompts holds the LLM prompt templates, embedded from JSON files.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt names a template as "<file>/<key>", e.g. "skills/extract-skills".
type Prompt string

// Prompts used by the engine.
const (
	ExtractSkills Prompt = "skills/extract-skills"
	PredictMatch  Prompt = "scoring/predict-match"
	DraftSummary  Prompt = "assembly/draft-summary"
)

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var (
	loadOnce  sync.Once
	templates map[Prompt]string
	loadErr   error
)

// load parses every embedded file once.
func load() (map[Prompt]string, error) {
	loadOnce.Do(func() {
		entries, err := promptFiles.ReadDir(".")
		if err != nil {
			loadErr = fmt.Errorf("failed to list prompt files: %w", err)
			return
		}
		out := make(map[Prompt]string)
		for _, e := range entries {
			data, err := promptFiles.ReadFile(e.Name())
			if err != nil {
				loadErr = fmt.Errorf("failed to read prompt file %s: %w", e.Name(), err)
				return
			}
			var byKey map[string]string
			if err := json.Unmarshal(data, &byKey); err != nil {
				loadErr = fmt.Errorf("failed to parse prompt file %s: %w", e.Name(), err)
				return
			}
			file := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
			for key, tmpl := range byKey {
				out[Prompt(file+"/"+key)] = tmpl
			}
		}
		templates = out
	})
	return templates, loadErr
}

// Get returns the raw template.
func Get(p Prompt) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	tmpl, ok := all[p]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", p)
	}
	return tmpl, nil
}

// Render fills every {{.Name}} placeholder from data. A placeholder without a
// value is an error so a half-filled prompt never reaches the model.
func Render(p Prompt, data map[string]string) (string, error) {
	tmpl, err := Get(p)
	if err != nil {
		return "", err
	}

	var missing []string
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := data[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q: no value for %s", p, strings.Join(missing, ", "))
	}
	return out, nil
}

// Placeholders lists the distinct placeholder names of a template, sorted.
func Placeholders(p Prompt) ([]string, error) {
	tmpl, err := Get(p)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		seen[m[1]] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
