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
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.RetryAttempts = attempts
	cfg.RetryBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

// Telemetry delivery is a POST with an Idempotency-Key, so the client
// opts into non-idempotent retry. A transient collector failure must
// be absorbed within the budget, replaying the full body each time.
func TestRetryReplaysTelemetryPost(t *testing.T) {
	var hits atomic.Int32
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := fastRetryConfig(2)
	cfg.RetryNonIdempotent = true
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := client.Post(srv.URL, "application/json", strings.NewReader(`{"command":"spool.greet"}`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("collector hit %d times, want 3", got)
	}
	for i, body := range bodies {
		if body != `{"command":"spool.greet"}` {
			t.Errorf("attempt %d body = %q, not replayed", i, body)
		}
	}
}

func TestPostSentOnceWithoutOptIn(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := New(fastRetryConfig(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := client.Post(srv.URL, "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	resp.Body.Close()

	if got := hits.Load(); got != 1 {
		t.Errorf("POST without opt-in sent %d times, want 1", got)
	}
}

func TestClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := New(fastRetryConfig(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("400 retried: %d hits, want 1", got)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := New(fastRetryConfig(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want the final 500", resp.StatusCode)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("hit %d times, want initial try plus 2 retries", got)
	}
}

func TestTransientStatus(t *testing.T) {
	transient := []int{500, 502, 503, 408, 429}
	for _, code := range transient {
		if !transientStatus(code) {
			t.Errorf("transientStatus(%d) = false, want true", code)
		}
	}
	final := []int{200, 204, 301, 400, 401, 403, 404}
	for _, code := range final {
		if transientStatus(code) {
			t.Errorf("transientStatus(%d) = true, want false", code)
		}
	}
}

func TestTransientError(t *testing.T) {
	if transientError(context.Canceled) {
		t.Error("context.Canceled classed as transient")
	}
	if transientError(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded classed as transient")
	}
	if !transientError(&net.OpError{Op: "dial", Err: io.EOF}) {
		t.Error("dial failure not classed as transient")
	}
	if !transientError(io.ErrUnexpectedEOF) {
		t.Error("unexpected EOF not classed as transient")
	}
}

func TestRetryAfterHeader(t *testing.T) {
	mkResp := func(value string) *http.Response {
		resp := &http.Response{Header: http.Header{}}
		if value != "" {
			resp.Header.Set("Retry-After", value)
		}
		return resp
	}

	if got := retryAfter(nil); got != 0 {
		t.Errorf("retryAfter(nil) = %v, want 0", got)
	}
	if got := retryAfter(mkResp("")); got != 0 {
		t.Errorf("no header: %v, want 0", got)
	}
	if got := retryAfter(mkResp("3")); got != 3*time.Second {
		t.Errorf("seconds form: %v, want 3s", got)
	}
	if got := retryAfter(mkResp("garbage")); got != 0 {
		t.Errorf("unparsable: %v, want 0", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := retryAfter(mkResp(future)); got <= 0 || got > time.Minute {
		t.Errorf("date form: %v, want about a minute", got)
	}
}
