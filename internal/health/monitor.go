// Package health tracks whether the scoring backend is reachable.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Default timings.
const (
	DefaultTTL          = 5 * time.Second
	DefaultProbeTimeout = 2 * time.Second
)

// Prober performs one reachability check.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context) error {
	return f(ctx)
}

// Monitor owns the cached backend state. Both successful and failed probes are
// cached for the TTL, and concurrent refreshes share a single probe.
type Monitor struct {
	prober  Prober
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	status types.BackendStatus
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithTTL sets how long a probe result is trusted.
func WithTTL(ttl time.Duration) Option {
	return func(m *Monitor) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithProbeTimeout bounds a single probe.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(m *Monitor) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// NewMonitor creates a monitor in the Unknown state.
func NewMonitor(prober Prober, log *zap.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		prober:  prober,
		ttl:     DefaultTTL,
		timeout: DefaultProbeTimeout,
		now:     time.Now,
		log:     logger.Component(log, "health"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status = types.BackendStatus{State: types.BackendUnknown, TTL: m.ttl}
	return m
}

// IsReady returns the cached readiness, probing first when the cache is stale.
func (m *Monitor) IsReady(ctx context.Context) bool {
	if s, fresh := m.cached(); fresh {
		return s.Ready()
	}
	return m.refresh(ctx).Ready()
}

// Probe checks the backend now, regardless of the cache. Concurrent callers share one check.
func (m *Monitor) Probe(ctx context.Context) types.BackendStatus {
	return m.probeShared(ctx)
}

// Status returns the current snapshot without probing.
func (m *Monitor) Status() types.BackendStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) cached() (types.BackendStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status.State == types.BackendUnknown {
		return m.status, false
	}
	return m.status, m.now().Sub(m.status.CheckedAt) < m.ttl
}

func (m *Monitor) refresh(ctx context.Context) types.BackendStatus {
	return m.shared(ctx, false)
}

func (m *Monitor) probeShared(ctx context.Context) types.BackendStatus {
	return m.shared(ctx, true)
}

// shared runs at most one check at a time. Refreshes and explicit probes join
// the same flight; a refresh skips the check when another caller refreshed
// the state while it waited.
func (m *Monitor) shared(ctx context.Context, force bool) types.BackendStatus {
	v, _, _ := m.group.Do("probe", func() (any, error) {
		if !force {
			if s, fresh := m.cached(); fresh {
				return s, nil
			}
		}
		return m.probe(ctx), nil
	})
	return v.(types.BackendStatus)
}

// ReportFailure records a failed call made outside the monitor, e.g. a timed out
// prediction. The backend is Disconnected until the TTL passes and a probe says
// otherwise. A nil err is ignored.
func (m *Monitor) ReportFailure(err error) {
	if err == nil {
		return
	}
	status := types.BackendStatus{
		State:     types.BackendDisconnected,
		CheckedAt: m.now(),
		TTL:       m.ttl,
		LastError: err.Error(),
	}

	m.mu.Lock()
	previous := m.status.State
	m.status = status
	m.mu.Unlock()

	if previous != types.BackendDisconnected {
		m.log.Warn("scoring backend unavailable", zap.String("state", string(status.State)), zap.String("source", "call"), zap.Error(err))
	}
}

// probe runs one check and stores the outcome. It never panics or returns an error;
// any failure, including a timeout, records Disconnected.
func (m *Monitor) probe(ctx context.Context) (status types.BackendStatus) {
	// the shared probe must not die with the first caller's request
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	start := m.now()
	err := m.safeProbe(probeCtx)

	status = types.BackendStatus{
		State:     types.BackendConnected,
		CheckedAt: m.now(),
		TTL:       m.ttl,
	}
	if err != nil {
		status.State = types.BackendDisconnected
		status.LastError = err.Error()
	}

	m.mu.Lock()
	previous := m.status.State
	m.status = status
	m.mu.Unlock()

	fields := []zap.Field{
		zap.String("state", string(status.State)),
		zap.Duration("elapsed", status.CheckedAt.Sub(start)),
	}
	switch {
	case previous != status.State && err != nil:
		m.log.Warn("scoring backend unavailable", append(fields, zap.Error(err))...)
	case previous != status.State:
		m.log.Info("scoring backend connected", fields...)
	default:
		m.log.Debug("probe finished", fields...)
	}
	return status
}

func (m *Monitor) safeProbe(ctx context.Context) error {
	if m.prober == nil {
		return &types.BackendUnavailableError{Backend: "scoring-backend", Message: "not configured"}
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("probe panicked: %v", r)
			}
		}()
		done <- m.prober.Probe(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return &types.BackendUnavailableError{Backend: "scoring-backend", Message: "probe timed out", Cause: ctx.Err()}
	}
}
