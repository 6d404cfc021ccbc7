package skills

import (
	"context"
	"sync"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/types"
)

// fakeBackend returns canned skills or an error and counts calls.
type fakeBackend struct {
	name   string
	skills []types.Skill
	err    error

	mu    sync.Mutex
	calls int
}

func (f *fakeBackend) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeBackend) ExtractSkills(_ context.Context, _ string) ([]types.Skill, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.skills, f.err
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// mockLLMClient implements llm.Client for testing
type mockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateJSON(ctx, prompt, tier)
}

func (m *mockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateJSONFunc(ctx, prompt, tier)
}

func (m *mockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *mockLLMClient) Close() error {
	return nil
}

// mapStore is an in-memory Store.
type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string][]byte)}
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *mapStore) Set(_ context.Context, key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}
