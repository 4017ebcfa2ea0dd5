// Package auth implements the platform logon flows: credential logon,
// login-token issuance, and token logon. A Session is an explicit value
// passed to the API client; there is no process-wide session state.
package auth

import "strings"

// Session holds the endpoint and the cookie string that authenticates
// every subsequent platform request.
type Session struct {
	Endpoint string
	Cookie   string
}

// NewSession creates a session from an endpoint and an existing cookie,
// for callers that already hold valid session material.
func NewSession(endpoint, cookie string) *Session {
	return &Session{Endpoint: strings.TrimSuffix(endpoint, "/"), Cookie: cookie}
}

// NormalizeSetCookies folds the values of multiple Set-Cookie headers into
// a single request cookie string: each name=value pair joined by "; ",
// first-seen order, duplicates dropped, no trailing separator.
func NormalizeSetCookies(setCookies []string) string {
	var pairs []string
	seen := make(map[string]bool)

	for _, sc := range setCookies {
		// Only the name=value part before the first attribute matters
		pair := sc
		if i := strings.Index(sc, ";"); i >= 0 {
			pair = sc[:i]
		}
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		eq := strings.Index(pair, "=")
		if eq <= 0 {
			continue
		}
		name := pair[:eq]
		if seen[name] {
			continue
		}
		seen[name] = true
		pairs = append(pairs, pair)
	}

	return strings.Join(pairs, "; ")
}
