package skills

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Chain tries backends in order and returns the first successful result.
type Chain struct {
	backends []Backend
	log      *zap.Logger
}

// NewChain builds a chain. Nil backends are skipped.
func NewChain(log *zap.Logger, backends ...Backend) *Chain {
	c := &Chain{log: logger.Component(log, "skills.chain")}
	for _, b := range backends {
		if b != nil {
			c.backends = append(c.backends, b)
		}
	}
	return c
}

// Name joins the member names.
func (c *Chain) Name() string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// ExtractSkills returns the first backend result without error. Input errors stop the chain.
func (c *Chain) ExtractSkills(ctx context.Context, text string) ([]types.Skill, error) {
	if len(c.backends) == 0 {
		return nil, &types.BackendUnavailableError{Backend: "skills", Message: "no extraction backend configured"}
	}

	var errs []error
	for _, b := range c.backends {
		skills, err := b.ExtractSkills(ctx, text)
		if err == nil {
			return skills, nil
		}
		if types.IsInputError(err) {
			return nil, err
		}
		c.log.Info("backend failed, trying next", zap.String(logger.FieldBackend, b.Name()), zap.Error(err))
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
