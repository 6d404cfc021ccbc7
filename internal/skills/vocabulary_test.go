package skills

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/types"
)

func extractNames(t *testing.T, text string) []string {
	t.Helper()
	got, err := NewExtractor(NewVocabularyBackend(nil), nil).Extract(context.Background(), types.TextBlob(text))
	require.NoError(t, err)
	return got.Names()
}

func TestVocabularyBackend_ExtractSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"react and python", "Need React and Python, 5 years", []string{"react", "python"}},
		{"whole words only", "Javascript experience; no java here? Actually Java too.", []string{"javascript", "java"}},
		{"sql not inside other words", "MySQL and PostgreSQL, plus raw SQL", []string{"mysql", "postgresql", "sql"}},
		{"symbols", "C++ and C# with CI/CD on Node.js", []string{"c++", "c#", "ci/cd", "node.js"}},
		{"aliases map to canonical", "Golang services on k8s with Postgres", []string{"go", "kubernetes", "postgresql"}},
		{"longest form first", "Spring Boot microservices", []string{"spring", "microservices"}},
		{"nothing known", "We value kindness", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractNames(t, tt.text))
		})
	}
}

func TestVocabularyBackend_Relevance(t *testing.T) {
	b := NewVocabularyBackend(nil)
	text := "Go is required. We use Go and Docker daily. Experience with Kafka is a plus."

	got, err := b.ExtractSkills(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byName := map[string]types.Skill{}
	for _, s := range got {
		byName[s.Name] = s
	}

	// two mentions, one in a required sentence
	assert.InDelta(t, 1.0, byName["go"].Relevance, 1e-9)
	assert.InDelta(t, 0.6, byName["docker"].Relevance, 1e-9)
	// only mentioned as optional
	assert.InDelta(t, 0.4, byName["kafka"].Relevance, 1e-9)
	assert.Equal(t, CategoryData, byName["kafka"].Category)
}

func TestVocabularyBackend_CustomTerms(t *testing.T) {
	b := NewVocabularyBackend([]Term{{Name: "haskell", Category: CategoryLanguage, Forms: []string{"ghc"}}})

	got, err := b.ExtractSkills(context.Background(), "GHC and Haskell")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "haskell", got[0].Name)
	assert.InDelta(t, 0.8, got[0].Relevance, 1e-9)

	category, ok := b.Category("haskell")
	assert.True(t, ok)
	assert.Equal(t, CategoryLanguage, category)
}
