package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakePlatform wires the three logon endpoints of a platform instance
func newFakePlatform(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/DocuWare/Platform/Account/Logon", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, "expected multipart form", http.StatusBadRequest)
			return
		}
		if r.FormValue("UserName") != "alice" || r.FormValue("Password") != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		w.Header().Add("Set-Cookie", ".PLATFORMAUTH=interim; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "DWLang=en; Path=/")
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/DocuWare/Platform/Organization/LoginToken", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Cookie"), ".PLATFORMAUTH=interim") {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}
		var req struct {
			Usage    string `json:"Usage"`
			Lifetime string `json:"Lifetime"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Usage != "Multi" {
			http.Error(w, "bad token request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode("tok-xyz")
	})

	mux.HandleFunc("/DocuWare/Platform/Account/TokenLogOn", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.FormValue("Token") != "tok-xyz" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		w.Header().Add("Set-Cookie", ".PLATFORMAUTH=fresh; Path=/; HttpOnly")
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGenerateToken(t *testing.T) {
	server := newFakePlatform(t)

	token, session, err := NewAuthenticator(server.URL).
		GenerateToken(context.Background(), "alice", "secret", "host-1")
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token != "tok-xyz" {
		t.Errorf("GenerateToken() token = %q, want %q", token, "tok-xyz")
	}
	// The interim logon cookie stays in the returned session
	if !strings.Contains(session.Cookie, ".PLATFORMAUTH=interim") {
		t.Errorf("GenerateToken() session cookie = %q, want interim cookie", session.Cookie)
	}
	if !strings.Contains(session.Cookie, "DWLang=en") {
		t.Errorf("GenerateToken() session cookie = %q, want both cookies joined", session.Cookie)
	}
}

func TestGenerateToken_BadCredentials(t *testing.T) {
	server := newFakePlatform(t)

	_, _, err := NewAuthenticator(server.URL).
		GenerateToken(context.Background(), "alice", "wrong", "")
	if err == nil {
		t.Fatal("GenerateToken() expected error for bad credentials, got nil")
	}
}

func TestLogonWithToken(t *testing.T) {
	server := newFakePlatform(t)

	session, err := NewAuthenticator(server.URL).LogonWithToken(context.Background(), "tok-xyz")
	if err != nil {
		t.Fatalf("LogonWithToken() unexpected error: %v", err)
	}
	if session.Cookie != ".PLATFORMAUTH=fresh" {
		t.Errorf("LogonWithToken() cookie = %q, want %q", session.Cookie, ".PLATFORMAUTH=fresh")
	}
	if session.Endpoint != server.URL {
		t.Errorf("LogonWithToken() endpoint = %q, want %q", session.Endpoint, server.URL)
	}
}

func TestLogonFromCredentials(t *testing.T) {
	server := newFakePlatform(t)

	session, err := NewAuthenticator(server.URL).
		LogonFromCredentials(context.Background(), "alice", "secret", "host-1")
	if err != nil {
		t.Fatalf("LogonFromCredentials() unexpected error: %v", err)
	}
	// The composed flow ends on the token logon's fresh cookie
	if session.Cookie != ".PLATFORMAUTH=fresh" {
		t.Errorf("LogonFromCredentials() cookie = %q, want %q", session.Cookie, ".PLATFORMAUTH=fresh")
	}
}

func TestParseTokenBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json string", `"tok-abc"`, "tok-abc"},
		{"raw token", "tok-abc", "tok-abc"},
		{"raw token with newline", "tok-abc\n", "tok-abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTokenBody([]byte(tt.body))
			if got != tt.want {
				t.Errorf("parseTokenBody(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
