// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultHTTPTimeout is the timeout for platform API requests
	// (document downloads can take a while)
	DefaultHTTPTimeout = 120 * time.Second
	// DefaultLogonTimeout is the timeout for logon/token HTTP requests
	DefaultLogonTimeout = 30 * time.Second
)

// Platform defaults
const (
	// PlatformPrefix is the URL prefix every platform resource lives under
	PlatformPrefix = "DocuWare/Platform"
	// DefaultIDField is the system field carrying the document id
	DefaultIDField = "DWDOCID"
	// DefaultPageSize is the window size for paginated document listings
	DefaultPageSize = 1000
	// TokenLifetime is the fixed lifetime requested for login tokens (24h, multi-use)
	TokenLifetime = "1.00:00:00"
)

// Retry defaults (overridable via config file, env, or flags)
const (
	DefaultRetryMax       = 10
	DefaultRetryBase      = 1 * time.Second
	DefaultRetryJitterMin = 0 * time.Second
	DefaultRetryJitterMax = 5 * time.Second
)
