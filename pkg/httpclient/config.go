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
	"fmt"
	"time"
)

// Config controls the client built by New.
type Config struct {
	// Timeout bounds each request end to end, retries included.
	Timeout time.Duration

	// RetryAttempts is the retry budget after the initial try.
	// Zero disables the retry layer entirely.
	RetryAttempts int

	// RetryBackoff is the delay before the first retry; each further
	// retry doubles it, capped at MaxBackoff, with jitter added.
	RetryBackoff time.Duration

	// MaxBackoff caps the per-retry delay.
	MaxBackoff time.Duration

	// UserAgent is set on every request that does not carry one.
	UserAgent string

	// RetryNonIdempotent extends the retry budget to POST and friends.
	// The caller must attach an Idempotency-Key header so the receiver
	// can deduplicate replays.
	RetryNonIdempotent bool
}

// DefaultConfig returns the settings shared by spool's outbound clients.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		RetryAttempts: 2,
		RetryBackoff:  200 * time.Millisecond,
		MaxBackoff:    10 * time.Second,
		UserAgent:     "spool-http-client/1.0",
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts must not be negative, got %d", c.RetryAttempts)
	}
	if c.RetryAttempts > 0 {
		if c.RetryBackoff <= 0 {
			return fmt.Errorf("retry backoff must be positive when retries are enabled, got %v", c.RetryBackoff)
		}
		if c.MaxBackoff < c.RetryBackoff {
			return fmt.Errorf("max backoff %v is below retry backoff %v", c.MaxBackoff, c.RetryBackoff)
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent is required")
	}
	return nil
}
