// Package api provides the HTTP layer for the platform client: a session-
// bound client that issues GET/POST requests with the session cookie and
// retries non-200 responses under a bounded, jittered policy.
//
// Only status 200 is treated as success. Transport-level failures are
// surfaced immediately without retrying; everything else is retried up to
// RetryPolicy.MaxAttempts with a delay of
//
//	base + floor(random() * (jitterMax - jitterMin)) seconds
//
// between attempts. A run against a failing endpoint can therefore take up
// to maxAttempts * (base + jitter range) seconds per call.
package api
