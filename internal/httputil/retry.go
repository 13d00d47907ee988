// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP plumbing shared by API clients.
package httputil

import (
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// RetryTransport is an http.RoundTripper that retries HTTP 429 (Too Many
// Requests) responses with exponential backoff. The delay starts at
// RetryBaseDelay and doubles each attempt. It exists so OpenAI-compatible
// SDK clients pick up rate-limit handling through their injected
// http.Client without any retry logic above the transport.
//
// Requests with a body are only retried when the request carries GetBody,
// which the standard library sets for the buffered bodies SDK clients use.
// After exhausting retries the last 429 response is returned so the caller
// can inspect it. A cancelled context during a backoff wait returns the
// context error.
type RetryTransport struct {
	// Base is the underlying transport. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// MaxRetries caps the retry count. Zero means the default (5).
	MaxRetries int
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	maxRetries := t.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req
		if attempt > 0 {
			attemptReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				attemptReq.Body = body
			}
		}

		resp, err := base.RoundTrip(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries, or the body cannot be replayed: return
		// the 429 response as-is.
		if attempt >= maxRetries || (req.Body != nil && req.GetBody == nil) {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
	}
}
