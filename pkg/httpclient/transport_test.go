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
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestUserAgentInjected(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := &http.Client{Transport: newLoggingTransport(nil, "spool-telemetry/1.0")}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if seen != "spool-telemetry/1.0" {
		t.Errorf("User-Agent = %q", seen)
	}
}

func TestUserAgentNotOverwritten(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := &http.Client{Transport: newLoggingTransport(nil, "spool-telemetry/1.0")}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("User-Agent", "caller/2.0")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if seen != "caller/2.0" {
		t.Errorf("User-Agent = %q, want the caller's value kept", seen)
	}
}

func TestTraceIDPropagated(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	}))
	defer srv.Close()

	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanID := trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(t.Context(), sc)

	client := &http.Client{Transport: newLoggingTransport(nil, "spool-telemetry/1.0")}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if seen != traceID.String() {
		t.Errorf("X-Request-ID = %q, want %q", seen, traceID.String())
	}
}

func TestNoTraceIDWithoutSpan(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	}))
	defer srv.Close()

	client := &http.Client{Transport: newLoggingTransport(nil, "spool-telemetry/1.0")}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if seen != "" {
		t.Errorf("X-Request-ID = %q, want empty without an active span", seen)
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "api key redacted",
			in:   "https://collector.example.com/v1?api_key=s3cret&page=2",
			want: "https://collector.example.com/v1?api_key=%5BREDACTED%5D&page=2",
		},
		{
			name: "token redacted case-insensitively",
			in:   "https://collector.example.com/v1?Access_Token=abc",
			want: "https://collector.example.com/v1?Access_Token=%5BREDACTED%5D",
		},
		{
			name: "plain params untouched",
			in:   "https://collector.example.com/v1?page=2&limit=10",
			want: "https://collector.example.com/v1?page=2&limit=10",
		},
		{
			name: "no query untouched",
			in:   "https://collector.example.com/v1",
			want: "https://collector.example.com/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := redactURL(u); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := redactURL(nil); got != "" {
		t.Errorf("redactURL(nil) = %q, want empty", got)
	}
}
