package api

import "fmt"

// APIError represents a non-200 response from the platform
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform request %q failed: status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("platform request %q failed: status %d", e.Path, e.StatusCode)
}
