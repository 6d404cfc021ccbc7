package types

import "time"

// BackendState is the cached reachability of the scoring backend.
type BackendState string

const (
	// BackendUnknown is the state before the first probe.
	BackendUnknown BackendState = "unknown"
	// BackendConnected means the last probe succeeded.
	BackendConnected BackendState = "connected"
	// BackendDisconnected means the last probe failed or timed out.
	BackendDisconnected BackendState = "disconnected"
)

// BackendStatus is a snapshot of the health monitor.
type BackendStatus struct {
	State     BackendState  `json:"state"`
	CheckedAt time.Time     `json:"checkedAt"`
	TTL       time.Duration `json:"ttl"`
	LastError string        `json:"lastError,omitempty"`
}

// Ready reports whether the backend may be called.
func (s BackendStatus) Ready() bool {
	return s.State == BackendConnected
}
