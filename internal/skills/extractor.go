// Package skills derives normalized, deduplicated skill sets from free text.
// The Extractor owns normalization; the text-to-skills heuristic is a pluggable Backend.
package skills

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Backend produces raw skill candidates from text.
type Backend interface {
	Name() string
	ExtractSkills(ctx context.Context, text string) ([]types.Skill, error)
}

// Extractor normalizes and deduplicates the output of a Backend.
type Extractor struct {
	backend Backend
	log     *zap.Logger
}

// NewExtractor wraps backend.
func NewExtractor(backend Backend, log *zap.Logger) *Extractor {
	return &Extractor{
		backend: backend,
		log:     logger.Component(log, "skills"),
	}
}

// Extract returns the skill set mentioned in text, in extraction order.
// When the backend fails the result is an empty set and the error wraps
// types.ErrExtractorUnavailable along with the backend's own error.
func (e *Extractor) Extract(ctx context.Context, text types.TextBlob) (types.SkillSet, error) {
	if parsing.IsBlank(text) {
		return types.SkillSet{}, nil
	}

	raw, err := e.backend.ExtractSkills(ctx, text.String())
	if err != nil {
		e.log.Warn("skill extraction failed",
			zap.String(logger.FieldBackend, e.backend.Name()),
			zap.Error(err),
		)
		return types.SkillSet{}, fmt.Errorf("%w: %w", types.ErrExtractorUnavailable, err)
	}

	skills := parsing.NormalizeSkills(raw)
	for i := range skills {
		if skills[i].Category == "" {
			skills[i].Category = Categorize(skills[i].Name)
		}
	}

	e.log.Debug("skills extracted",
		zap.String(logger.FieldBackend, e.backend.Name()),
		zap.Int("raw", len(raw)),
		zap.Int("skills", len(skills)),
	)
	return skills, nil
}

// Backend returns the wrapped backend.
func (e *Extractor) Backend() Backend {
	return e.backend
}

var defaultVocabulary = NewVocabularyBackend(nil)

// categoryKeywords classify skills outside the vocabulary, checked in order
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategorySoftSkill, []string{"communication", "teamwork", "leadership", "problem", "critical", "thinking", "adaptability", "creativity", "mentoring"}},
	{CategoryBusiness, []string{"management", "strategy", "marketing", "sales", "finance", "accounting", "operations", "planning", "business"}},
	{CategoryDatabase, []string{"database", "sql", "db"}},
	{CategoryCloud, []string{"cloud", "aws", "azure", "gcp"}},
	{CategoryDevOps, []string{"devops", "deploy", "pipeline", "container", "infrastructure"}},
	{CategoryData, []string{"data", "analytics", "learning", "statistics", "analysis"}},
	{CategoryFramework, []string{"framework", "library", ".js", "api"}},
	{CategoryLanguage, []string{"programming", "language"}},
}

// Categorize assigns a category to a canonical skill name: the vocabulary's
// category when known, otherwise the first matching keyword group, otherwise "other".
func Categorize(name string) string {
	if category, ok := defaultVocabulary.Category(name); ok {
		return category
	}
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, kw) {
				return group.category
			}
		}
	}
	return CategoryOther
}
