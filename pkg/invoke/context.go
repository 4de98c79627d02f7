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

package invoke

import (
	"context"
	"time"
)

// ToolContext is the immutable snapshot of invocation-level flags. It is
// created once per invocation, owned by the pipeline, and made available to
// callbacks through the standard context.
type ToolContext struct {
	Quiet          bool
	Verbose        bool
	DryRun         bool
	Force          bool
	Yes            bool
	IdempotencyKey string

	// Timeout is the caller-declared budget. The pipeline records it for
	// the callback to honor voluntarily; nothing is enforced here.
	Timeout time.Duration

	// ResponseFormat is "text" or "json".
	ResponseFormat string

	// Auth is the opaque set of granted scope strings.
	Auth []string

	// Extra carries free-form surface-specific values.
	Extra map[string]string
}

// HasScope reports whether the invocation was granted the given auth scope.
func (tc ToolContext) HasScope(scope string) bool {
	for _, s := range tc.Auth {
		if s == scope {
			return true
		}
	}
	return false
}

type toolContextKey struct{}

// WithToolContext attaches the invocation snapshot to a context.
func WithToolContext(ctx context.Context, tc ToolContext) context.Context {
	return context.WithValue(ctx, toolContextKey{}, tc)
}

// FromContext retrieves the invocation snapshot, if present. Callbacks use
// this to honor dry_run, verbosity, and the voluntary timeout.
func FromContext(ctx context.Context) (ToolContext, bool) {
	tc, ok := ctx.Value(toolContextKey{}).(ToolContext)
	return tc, ok
}
