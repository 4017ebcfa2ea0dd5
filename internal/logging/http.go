package logging

import (
	"net/http"
	"strings"
	"time"
)

// RoundTripperWrapper wraps an http.RoundTripper and logs every request
// and response at debug level. Session cookies and tokens are redacted.
type RoundTripperWrapper struct {
	wrapped http.RoundTripper
	logger  *Logger
}

// NewLoggingRoundTripper creates a new logging round tripper
func NewLoggingRoundTripper(wrapped http.RoundTripper, logger *Logger) *RoundTripperWrapper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	return &RoundTripperWrapper{
		wrapped: wrapped,
		logger:  logger,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripperWrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rt.logger.Debug("HTTP request", Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": redactHeaders(req.Header),
	})

	resp, err := rt.wrapped.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		rt.logger.Error("HTTP transport error", err, Fields{
			"method": req.Method,
			"url":    req.URL.String(),
		})
		return nil, err
	}

	rt.logger.Debug("HTTP response", Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"headers":     redactHeaders(resp.Header),
	})

	return resp, nil
}

// redactHeaders copies headers with credential-bearing values masked
func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		if isSensitiveHeader(k) {
			out[k] = "[REDACTED]"
		} else {
			out[k] = v[0]
		}
	}
	return out
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	sensitive := []string{
		"authorization",
		"cookie",
		"set-cookie",
		"x-auth-token",
	}
	nameLower := strings.ToLower(name)
	for _, s := range sensitive {
		if nameLower == s {
			return true
		}
	}
	return false
}
