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
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// loggingTransport injects the User-Agent and the active trace ID, and
// logs every request with sensitive query parameters redacted.
type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
}

func newLoggingTransport(base http.RoundTripper, userAgent string) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{base: base, userAgent: userAgent}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	// Carry the active trace ID so collector logs correlate with ours.
	if sc := trace.SpanContextFromContext(req.Context()); sc.HasTraceID() {
		req.Header.Set("X-Request-ID", sc.TraceID().String())
	}

	resp, err := t.base.RoundTrip(req)

	elapsed := time.Since(start).Milliseconds()
	safeURL := redactURL(req.URL)
	if err != nil {
		slog.Warn("http request failed",
			"method", req.Method,
			"url", safeURL,
			"duration_ms", elapsed,
			"error", err.Error(),
		)
		return resp, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	slog.Log(req.Context(), level, "http request",
		"method", req.Method,
		"url", safeURL,
		"status", resp.StatusCode,
		"duration_ms", elapsed,
	)
	return resp, nil
}

// secretFragments marks query parameter names that must never reach
// logs. Matching is a case-insensitive substring check so api_key,
// apiKey, and X-Auth-Token all hit.
var secretFragments = []string{
	"key", "token", "secret", "password", "auth", "credential",
}

// redactURL returns the URL string with secret-bearing query values
// replaced. The original URL is untouched.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for name := range q {
		lower := strings.ToLower(name)
		for _, fragment := range secretFragments {
			if strings.Contains(lower, fragment) {
				q.Set(name, "[REDACTED]")
				changed = true
				break
			}
		}
	}
	if !changed {
		return u.String()
	}
	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}
