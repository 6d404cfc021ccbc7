package skills

import (
	"context"
	"errors"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Gate reports whether a remote backend may be called right now.
type Gate interface {
	IsReady(ctx context.Context) bool
}

// FailureReporter is told when a call found the backend unreachable.
type FailureReporter interface {
	ReportFailure(err error)
}

// GatedBackend skips a remote backend while its gate reports it down, so a chain
// moves straight on to the next backend instead of waiting out a timeout.
type GatedBackend struct {
	next Backend
	gate Gate
}

// NewGatedBackend wraps next. A nil gate lets every call through.
func NewGatedBackend(next Backend, gate Gate) *GatedBackend {
	return &GatedBackend{next: next, gate: gate}
}

// Name reports the wrapped backend's name, so cache keys do not change.
func (g *GatedBackend) Name() string {
	return g.next.Name()
}

// ExtractSkills calls the wrapped backend only when the gate is open. An
// unreachable backend is reported back to the gate.
func (g *GatedBackend) ExtractSkills(ctx context.Context, text string) ([]types.Skill, error) {
	if g.gate != nil && !g.gate.IsReady(ctx) {
		return nil, &types.BackendUnavailableError{Backend: g.next.Name(), Message: "not ready, skipped"}
	}

	skills, err := g.next.ExtractSkills(ctx, text)
	if err != nil {
		ReportUnavailable(ctx, g.gate, err)
		return nil, err
	}
	return skills, nil
}

// ReportUnavailable forwards err to gate when err means the backend is unreachable
// and gate accepts reports. Calls cut short by the caller's own context are not
// the backend's fault and are ignored.
func ReportUnavailable(ctx context.Context, gate any, err error) {
	if err == nil || ctx.Err() != nil || !errors.Is(err, types.ErrBackendUnavailable) {
		return
	}
	if r, ok := gate.(FailureReporter); ok {
		r.ReportFailure(err)
	}
}
