// Package types provides type definitions for structured data shared by the matching engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Skill is a single normalized skill with an optional category and a relevance in [0,1].
type Skill struct {
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Relevance float64 `json:"relevance"`
}

// SkillKey returns the uniqueness key for a skill name.
func SkillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key returns the uniqueness key of the skill.
func (s Skill) Key() string {
	return SkillKey(s.Name)
}

// UnmarshalJSON accepts the shapes callers send for a skill: a bare string,
// {"name": ...} or the legacy {"skill": ...} object.
func (s *Skill) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = Skill{Name: name}
		return nil
	}

	var raw struct {
		Name      string   `json:"name"`
		Skill     string   `json:"skill"`
		Category  string   `json:"category"`
		Relevance *float64 `json:"relevance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid skill: %w", err)
	}

	name := raw.Name
	if name == "" {
		name = raw.Skill
	}
	*s = Skill{Name: name, Category: raw.Category}
	if raw.Relevance != nil {
		s.Relevance = *raw.Relevance
	}
	return nil
}

// SkillSet is an ordered sequence of skills. Order is extraction order.
type SkillSet []Skill

// Names returns the skill names in order.
func (ss SkillSet) Names() []string {
	names := make([]string, 0, len(ss))
	for _, s := range ss {
		names = append(names, s.Name)
	}
	return names
}

// Keys returns the set of uniqueness keys.
func (ss SkillSet) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		keys[s.Key()] = struct{}{}
	}
	return keys
}

// Contains reports whether a skill with the same key is present.
func (ss SkillSet) Contains(name string) bool {
	key := SkillKey(name)
	for _, s := range ss {
		if s.Key() == key {
			return true
		}
	}
	return false
}

// Requirements holds non-skill facts mined from a job description.
type Requirements struct {
	ExperienceYears int      `json:"experienceYears"`
	Education       []string `json:"education"`
}
