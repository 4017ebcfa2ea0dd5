package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/dwtools/dwcli/internal/constants"
)

// Environment variable names
const (
	EnvEndpoint = "DWCLI_ENDPOINT"
	EnvUsername = "DWCLI_USERNAME"
	EnvPassword = "DWCLI_PASSWORD"
	EnvHostID   = "DWCLI_HOST_ID"
	EnvToken    = "DWCLI_TOKEN"
	EnvCookie   = "DWCLI_COOKIE"
	EnvCabinet  = "DWCLI_CABINET"
	EnvIDField  = "DWCLI_ID_FIELD"

	EnvRetryMax       = "DWCLI_RETRY_MAX"
	EnvRetryBase      = "DWCLI_RETRY_BASE"
	EnvRetryJitterMin = "DWCLI_RETRY_JITTER_MIN"
	EnvRetryJitterMax = "DWCLI_RETRY_JITTER_MAX"
)

// Errors
var (
	ErrEndpointNotSet = errors.New("endpoint not set. Use --endpoint or set DWCLI_ENDPOINT")
	ErrNoCredentials  = errors.New("username and password required. Use --username/--password or set DWCLI_USERNAME/DWCLI_PASSWORD")
	ErrNoAuth         = errors.New("no authentication supplied. Provide --token or --cookie, or run 'dwcli gentoken --save' first")
)

// Retry holds the retry policy knobs. Delays are in seconds, matching the
// platform operator documentation; the API layer converts to durations.
type Retry struct {
	MaxAttempts   int
	BaseSeconds   float64
	JitterMinSecs float64
	JitterMaxSecs float64
}

// Config holds the application configuration
type Config struct {
	// Connection
	Endpoint string

	// Credentials for gentoken/gencookie
	Username string
	Password string
	HostID   string

	// Session material; at most one of these should be supplied
	Token  string
	Cookie string

	// Cabinet defaults
	Cabinet string
	IDField string

	// Retry policy
	Retry Retry

	// Flags
	Verbose bool
	Render  bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		Retry: Retry{
			MaxAttempts:   constants.DefaultRetryMax,
			BaseSeconds:   constants.DefaultRetryBase.Seconds(),
			JitterMinSecs: constants.DefaultRetryJitterMin.Seconds(),
			JitterMaxSecs: constants.DefaultRetryJitterMax.Seconds(),
		},
	}
}

// Load fills unset values from the config file and environment.
// Precedence: CLI flags (already applied by the caller) > env > config file.
func (c *Config) Load() {
	c.applyEnv()

	// Errors loading the config file are silently ignored - env vars and
	// flags take precedence anyway.
	if fileConfig, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
	}

	if c.IDField == "" {
		c.IDField = constants.DefaultIDField
	}
}

func (c *Config) applyEnv() {
	setString(&c.Endpoint, EnvEndpoint)
	setString(&c.Username, EnvUsername)
	setString(&c.Password, EnvPassword)
	setString(&c.HostID, EnvHostID)
	setString(&c.Token, EnvToken)
	setString(&c.Cookie, EnvCookie)
	setString(&c.Cabinet, EnvCabinet)
	setString(&c.IDField, EnvIDField)

	// Retry knobs from the environment apply only while the default is
	// still in place; an explicit flag wins.
	if v := os.Getenv(EnvRetryMax); v != "" && c.Retry.MaxAttempts == constants.DefaultRetryMax {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retry.MaxAttempts = n
		}
	}
	setSeconds(&c.Retry.BaseSeconds, EnvRetryBase, constants.DefaultRetryBase.Seconds())
	setSeconds(&c.Retry.JitterMinSecs, EnvRetryJitterMin, constants.DefaultRetryJitterMin.Seconds())
	setSeconds(&c.Retry.JitterMaxSecs, EnvRetryJitterMax, constants.DefaultRetryJitterMax.Seconds())
}

// setString fills dst from an environment variable if dst is still empty
func setString(dst *string, envVar string) {
	if *dst != "" {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		*dst = v
	}
}

func setSeconds(dst *float64, envVar string, defaultValue float64) {
	if *dst != defaultValue {
		return
	}
	if v := os.Getenv(envVar); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			*dst = f
		}
	}
}

// NormalizeEndpoint strips a trailing slash so path joining stays uniform
func (c *Config) NormalizeEndpoint() {
	c.Endpoint = strings.TrimSuffix(strings.TrimSpace(c.Endpoint), "/")
}

// AuthPreference resolves the supplied session material. Exactly one of
// token/cookie is expected; when both are present the cookie wins and the
// returned warning is non-empty. An empty cookie and token means no auth.
func (c *Config) AuthPreference() (cookie, token, warning string) {
	if c.Cookie != "" && c.Token != "" {
		return c.Cookie, "", "both --token and --cookie supplied; using the cookie"
	}
	return c.Cookie, c.Token, ""
}
