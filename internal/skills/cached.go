package skills

import (
	"context"
	"encoding/json"

	"github.com/jonathan/resume-matcher/internal/cache"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Store is the byte cache used by CachedBackend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// CachedBackend memoizes a backend's successful results. Failures are never cached.
type CachedBackend struct {
	next  Backend
	store Store
}

// NewCachedBackend wraps next with store.
func NewCachedBackend(next Backend, store Store) *CachedBackend {
	return &CachedBackend{next: next, store: store}
}

// Name reports the wrapped backend's name.
func (c *CachedBackend) Name() string {
	return c.next.Name()
}

// ExtractSkills serves from the cache when possible.
func (c *CachedBackend) ExtractSkills(ctx context.Context, text string) ([]types.Skill, error) {
	key := cache.Key("skills", c.next.Name(), text)

	if data, ok := c.store.Get(ctx, key); ok {
		var skills []types.Skill
		if json.Unmarshal(data, &skills) == nil {
			return skills, nil
		}
	}

	skills, err := c.next.ExtractSkills(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(skills); err == nil {
		c.store.Set(ctx, key, data)
	}
	return skills, nil
}
