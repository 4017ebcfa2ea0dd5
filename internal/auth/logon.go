package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/dwtools/dwcli/internal/constants"
	"github.com/dwtools/dwcli/internal/logging"
)

// Platform logon endpoints
const (
	logonPath      = constants.PlatformPrefix + "/Account/Logon"
	tokenLogonPath = constants.PlatformPrefix + "/Account/TokenLogOn"
	loginTokenPath = constants.PlatformPrefix + "/Organization/LoginToken"
)

// loginTokenRequest is the body posted to the token-issuance endpoint.
// The platform issues multi-use tokens with a fixed 24 hour lifetime.
type loginTokenRequest struct {
	TargetProducts []string `json:"TargetProducts"`
	Usage          string   `json:"Usage"`
	Lifetime       string   `json:"Lifetime"`
}

// Authenticator performs the logon handshakes against one endpoint
type Authenticator struct {
	httpClient *http.Client
	endpoint   string
}

// NewAuthenticator creates an Authenticator for the given endpoint
func NewAuthenticator(endpoint string) *Authenticator {
	return &Authenticator{
		httpClient: &http.Client{
			Timeout: constants.DefaultLogonTimeout,
			// Cookies are collected from the logon response by hand;
			// redirects would lose the Set-Cookie headers we need.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}
}

// LogonWithCredentials posts the login form and returns a session holding
// the normalized cookie string from the response.
func (a *Authenticator) LogonWithCredentials(ctx context.Context, username, password, hostID string) (*Session, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"UserName":                      username,
		"Password":                      password,
		"RedirectToMyselfInCaseOfError": "false",
	}
	if hostID != "" {
		fields["HostID"] = hostID
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to build logon form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build logon form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/"+logonPath, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logon request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("logon failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	cookie := NormalizeSetCookies(resp.Header.Values("Set-Cookie"))
	if cookie == "" {
		return nil, fmt.Errorf("logon succeeded but no session cookie was returned")
	}

	logging.Debug("credential logon succeeded", logging.Fields{"endpoint": a.endpoint})
	return &Session{Endpoint: a.endpoint, Cookie: cookie}, nil
}

// GenerateToken performs the credential logon and then requests a reusable
// login token (fixed 24 hour lifetime, multi-use) using the interim cookie.
// The interim session is returned alongside the token.
func (a *Authenticator) GenerateToken(ctx context.Context, username, password, hostID string) (string, *Session, error) {
	session, err := a.LogonWithCredentials(ctx, username, password, hostID)
	if err != nil {
		return "", nil, err
	}

	reqBody := loginTokenRequest{
		TargetProducts: []string{"PlatformService"},
		Usage:          "Multi",
		Lifetime:       constants.TokenLifetime,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/"+loginTokenPath, bytes.NewReader(jsonData))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", session.Cookie)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("token request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	token := parseTokenBody(respBody)
	if token == "" {
		return "", nil, fmt.Errorf("token endpoint returned an empty token")
	}

	logging.Debug("login token issued", logging.Fields{"lifetime": constants.TokenLifetime})
	return token, session, nil
}

// LogonWithToken exchanges a login token for a fresh session cookie
func (a *Authenticator) LogonWithToken(ctx context.Context, token string) (*Session, error) {
	form := url.Values{}
	form.Set("Token", token)
	form.Set("RedirectToMyselfInCaseOfError", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/"+tokenLogonPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token logon failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token logon failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	cookie := NormalizeSetCookies(resp.Header.Values("Set-Cookie"))
	if cookie == "" {
		return nil, fmt.Errorf("token logon succeeded but no session cookie was returned")
	}

	logging.Debug("token logon succeeded", logging.Fields{"endpoint": a.endpoint})
	return &Session{Endpoint: a.endpoint, Cookie: cookie}, nil
}

// LogonFromCredentials composes token generation and token logon for a
// one-shot credential-based login.
func (a *Authenticator) LogonFromCredentials(ctx context.Context, username, password, hostID string) (*Session, error) {
	token, _, err := a.GenerateToken(ctx, username, password, hostID)
	if err != nil {
		return nil, err
	}
	return a.LogonWithToken(ctx, token)
}

// parseTokenBody handles both a JSON-quoted token and a raw token body
func parseTokenBody(body []byte) string {
	var token string
	if err := json.Unmarshal(body, &token); err == nil {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(string(body))
}
