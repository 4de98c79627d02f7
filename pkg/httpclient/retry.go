// Copyright 2026 The Spool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpclient

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// retryTransport re-sends requests that failed transiently, with
// exponential backoff and jitter. Requests with a body must set
// GetBody (http.NewRequest does this for common body types) so the
// body can be replayed.
type retryTransport struct {
	base               http.RoundTripper
	budget             int
	backoff            time.Duration
	maxBackoff         time.Duration
	retryNonIdempotent bool
}

func newRetryTransport(base http.RoundTripper, cfg Config) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:               base,
		budget:             cfg.RetryAttempts,
		backoff:            cfg.RetryBackoff,
		maxBackoff:         cfg.MaxBackoff,
		retryNonIdempotent: cfg.RetryNonIdempotent,
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.retriable(req) {
		return t.base.RoundTrip(req)
	}

	var lastResp *http.Response
	var lastErr error

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := t.wait(req.Context(), attempt, lastResp); err != nil {
				return nil, err
			}
			if req.Body != nil && req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					break
				}
				req.Body = body
			}
		}

		resp, err := t.base.RoundTrip(req)
		if err == nil && !transientStatus(resp.StatusCode) {
			return resp, nil
		}
		if err != nil && !transientError(err) {
			return nil, err
		}

		lastResp, lastErr = resp, err
		if attempt == t.budget {
			break
		}
		if resp != nil && resp.Body != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return lastResp, nil
}

// retriable reports whether the request may be sent more than once. A
// body without GetBody cannot be replayed, so such requests go out
// exactly once.
func (t *retryTransport) retriable(req *http.Request) bool {
	if req.Body != nil && req.GetBody == nil {
		return false
	}
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return t.retryNonIdempotent
	}
}

// wait sleeps out the backoff for the given attempt, preferring a
// shorter server-supplied Retry-After when one is present. It returns
// early when the request context is done.
func (t *retryTransport) wait(ctx context.Context, attempt int, lastResp *http.Response) error {
	delay := t.backoff << (attempt - 1)
	if delay > t.maxBackoff || delay <= 0 {
		delay = t.maxBackoff
	}
	if hinted := retryAfter(lastResp); hinted > 0 && hinted < delay {
		delay = hinted
	}
	// Up to 20% jitter keeps replays from synchronizing.
	delay += time.Duration(rand.Int63n(int64(delay)/5 + 1))

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// transientStatus covers responses worth retrying: server errors,
// request timeouts, and rate limiting.
func transientStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

// transientError reports whether a transport error may clear on retry.
// Context cancellation never does.
func transientError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return transientError(urlErr.Err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// retryAfter reads a Retry-After header as either seconds or an
// HTTP-date; zero means no usable hint.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
