package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig limits one route. Paths ending in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int // defaults to Limit
}

// DefaultEndpointConfigs returns the per-route limits of the matching API.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// model-backed batch and drafting calls
		{Path: "/api/generate-resume", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/rank-candidates", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		{Path: "/api/extract-skills", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/match-resume", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/evaluate", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/skill-gaps", Method: "POST", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

// IPSet builds a lookup set from client addresses, skipping blanks.
func IPSet(ips []string) map[string]bool {
	set := make(map[string]bool, len(ips))
	for _, ip := range ips {
		// a single env value may carry a comma separated list
		for _, part := range strings.Split(ip, ",") {
			if part = strings.TrimSpace(part); part != "" {
				set[part] = true
			}
		}
	}
	return set
}
