package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dwtools/dwcli/internal/auth"
	"github.com/dwtools/dwcli/internal/constants"
	"github.com/dwtools/dwcli/internal/logging"
)

// Client issues authenticated requests against one platform endpoint,
// retrying non-200 responses under the configured policy. Requests are
// strictly sequential; the client holds no mutable state beyond the
// session it was built with.
type Client struct {
	httpClient *http.Client
	session    *auth.Session
	policy     RetryPolicy
}

// NewClient creates a client bound to a session and retry policy
func NewClient(session *auth.Session, policy RetryPolicy) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   constants.DefaultHTTPTimeout,
			Transport: logging.NewLoggingRoundTripper(nil, logging.DefaultLogger),
		},
		session: session,
		policy:  policy,
	}
}

// Session returns the session the client was built with
func (c *Client) Session() *auth.Session {
	return c.session
}

// Get issues a GET and returns the response body
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// GetStream issues a GET and returns the raw body stream, for binary
// document downloads. The caller must close the stream.
func (c *Client) GetStream(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Post issues a POST with the given body and returns the response body.
// contentType defaults to application/json.
func (c *Client) Post(ctx context.Context, path string, body []byte, contentType string) ([]byte, error) {
	if contentType == "" {
		contentType = "application/json"
	}

	resp, err := c.do(ctx, http.MethodPost, path, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, nil
}

// do runs the retry loop. A transport-level error aborts immediately with
// no retry; any status other than 200 is retried after a backoff delay
// until the policy's attempt budget is spent.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	url := c.session.Endpoint + "/" + path

	var lastStatus int
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request cancelled: %w", err)
		}

		req, err := c.newRequest(ctx, method, url, body, contentType)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport errors are not retried
			logging.Error("request failed", err, logging.Fields{"method": method, "path": path})
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		lastStatus = resp.StatusCode
		resp.Body.Close()

		if attempt < c.policy.MaxAttempts {
			delay := c.policy.Delay()
			logging.Warn("retrying request", logging.Fields{
				"path":    path,
				"status":  lastStatus,
				"attempt": attempt,
				"delay":   delay.String(),
			})
			if err := sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("request cancelled: %w", err)
			}
		}
	}

	return nil, &APIError{StatusCode: lastStatus, Path: path}
}

// newRequest builds one attempt's request with auth and tracing headers
func (c *Client) newRequest(ctx context.Context, method, url string, body []byte, contentType string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if c.session.Cookie != "" {
		req.Header.Set("Cookie", c.session.Cookie)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}
