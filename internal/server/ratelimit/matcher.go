package ratelimit

import "strings"

// probe routes, never limited
var unlimited = map[string]bool{
	"GET /health":           true,
	"GET /api/model-status": true,
}

// MatchEndpoint returns the limit for a route: an exact path match first, then
// the first prefix match. Probe routes get an unlimited config. nil means the
// default limit applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
