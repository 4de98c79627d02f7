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

// Package httpclient builds the outbound HTTP clients spool uses for
// remote delivery, primarily the telemetry collector POST.
//
// Every client shares the same transport stack: TLS 1.2 minimum with
// connection pooling, a logging layer that injects the User-Agent and
// the active trace ID and logs each request with secrets redacted from
// the URL, and an optional retry layer with exponential backoff.
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "spool-telemetry/1.0"
//	client, err := httpclient.New(cfg)
//
// Retries cover transient failures only: 5xx, 408, 429 (honoring
// Retry-After), timeouts, and connection errors. 4xx responses are
// returned as-is. Non-idempotent methods are sent exactly once unless
// RetryNonIdempotent is set; callers enabling it must attach an
// Idempotency-Key header so the receiver can deduplicate, which the
// telemetry recorder does.
package httpclient
