package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnvFillsUnsetOnly(t *testing.T) {
	t.Setenv(EnvEndpoint, "https://env.example.com")
	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvIDField, "ENV_ID")

	cfg := NewConfig()
	cfg.Endpoint = "https://flag.example.com" // a flag already set this

	cfg.applyEnv()

	if cfg.Endpoint != "https://flag.example.com" {
		t.Errorf("Endpoint = %q, flag value must win over env", cfg.Endpoint)
	}
	if cfg.Username != "env-user" {
		t.Errorf("Username = %q, want env value", cfg.Username)
	}
	if cfg.IDField != "ENV_ID" {
		t.Errorf("IDField = %q, want env value", cfg.IDField)
	}
}

func TestRetryEnvOnlyWhileDefault(t *testing.T) {
	t.Setenv(EnvRetryMax, "3")
	t.Setenv(EnvRetryBase, "2.5")

	cfg := NewConfig()
	cfg.Retry.MaxAttempts = 7 // flag override

	cfg.applyEnv()

	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, flag value must win over env", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseSeconds != 2.5 {
		t.Errorf("BaseSeconds = %v, want env value 2.5", cfg.Retry.BaseSeconds)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://dms.example.com/", "https://dms.example.com"},
		{"  https://dms.example.com  ", "https://dms.example.com"},
		{"https://dms.example.com", "https://dms.example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := &Config{Endpoint: tt.in}
		cfg.NormalizeEndpoint()
		if cfg.Endpoint != tt.want {
			t.Errorf("NormalizeEndpoint(%q) = %q, want %q", tt.in, cfg.Endpoint, tt.want)
		}
	}
}

func TestAuthPreference(t *testing.T) {
	tests := []struct {
		name        string
		cookie      string
		token       string
		wantCookie  string
		wantToken   string
		wantWarning bool
	}{
		{"cookie only", "sid=1", "", "sid=1", "", false},
		{"token only", "", "tok", "", "tok", false},
		{"both supplied cookie wins", "sid=1", "tok", "sid=1", "", true},
		{"neither", "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Cookie: tt.cookie, Token: tt.token}
			cookie, token, warning := cfg.AuthPreference()
			if cookie != tt.wantCookie || token != tt.wantToken {
				t.Errorf("AuthPreference() = (%q, %q), want (%q, %q)", cookie, token, tt.wantCookie, tt.wantToken)
			}
			if (warning != "") != tt.wantWarning {
				t.Errorf("AuthPreference() warning = %q, wantWarning %v", warning, tt.wantWarning)
			}
		})
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Endpoint = "https://flag.example.com"

	cfg.ApplyFileConfig(&FileConfig{
		Endpoint: "https://file.example.com",
		Cabinet:  "Invoices",
		IDField:  "FILE_ID",
		Retry: &RetryConfig{
			MaxAttempts: 4,
			BaseSeconds: 3,
		},
		Defaults: &DefaultsConfig{Render: true},
	})

	if cfg.Endpoint != "https://flag.example.com" {
		t.Errorf("Endpoint = %q, higher-priority value must survive", cfg.Endpoint)
	}
	if cfg.Cabinet != "Invoices" {
		t.Errorf("Cabinet = %q, want file value", cfg.Cabinet)
	}
	if cfg.IDField != "FILE_ID" {
		t.Errorf("IDField = %q, want file value", cfg.IDField)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("Retry.MaxAttempts = %d, want file value 4", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseSeconds != 3 {
		t.Errorf("Retry.BaseSeconds = %v, want file value 3", cfg.Retry.BaseSeconds)
	}
	if !cfg.Render {
		t.Error("Render = false, want file default applied")
	}
}

func TestApplyFileConfigRetryRespectsOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Retry.MaxAttempts = 2 // flag or env already changed it

	cfg.ApplyFileConfig(&FileConfig{Retry: &RetryConfig{MaxAttempts: 9}})

	if cfg.Retry.MaxAttempts != 2 {
		t.Errorf("Retry.MaxAttempts = %d, file must not override a changed value", cfg.Retry.MaxAttempts)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))

	confDir := filepath.Join(dir, ".config", "dwcli")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "endpoint: https://file.example.com\ncabinet: Archive\nretry:\n  max_attempts: 5\n"
	if err := os.WriteFile(filepath.Join(confDir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	cfg.Load()

	if cfg.Endpoint != "https://file.example.com" {
		t.Errorf("Endpoint = %q, want file value", cfg.Endpoint)
	}
	if cfg.Cabinet != "Archive" {
		t.Errorf("Cabinet = %q, want file value", cfg.Cabinet)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Retry.MaxAttempts = %d, want file value 5", cfg.Retry.MaxAttempts)
	}
	if cfg.IDField != "DWDOCID" {
		t.Errorf("IDField = %q, want built-in default", cfg.IDField)
	}
}
