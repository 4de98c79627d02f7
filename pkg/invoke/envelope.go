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
	"encoding/json"

	"github.com/spoolkit/spool/pkg/errors"
)

// Exit codes shared by every surface.
const (
	// ExitSuccess is returned for successful invocations.
	ExitSuccess = 0

	// ExitUserError covers validation, security-gate, and removed-command
	// failures.
	ExitUserError = 2

	// ExitInternal is returned for uncaught callback failures
	// (EX_SOFTWARE from sysexits.h).
	ExitInternal = 70
)

// Envelope is the uniform success/error wrapper returned by every
// invocation regardless of output surface.
type Envelope struct {
	OK     bool         `json:"ok"`
	Result any          `json:"result,omitempty"`
	Meta   *Meta        `json:"meta,omitempty"`
	Error  *ErrorObject `json:"error,omitempty"`
}

// Meta qualifies a successful result.
type Meta struct {
	// Tool is the app-qualified command name, "<app>.<command>".
	Tool string `json:"tool"`

	// Version is the host application version.
	Version string `json:"version"`

	// Warnings carries deprecation notices, when any apply.
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorObject is the structured failure payload.
type ErrorObject struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Category   string             `json:"category"`
	Suggestion *errors.Suggestion `json:"suggestion,omitempty"`
	Details    map[string]any     `json:"details,omitempty"`
}

// ExitCode maps the envelope to a process exit code.
func (e *Envelope) ExitCode() int {
	if e.OK {
		return ExitSuccess
	}
	if e.Error != nil && e.Error.Category == string(errors.CategoryInternal) {
		return ExitInternal
	}
	return ExitUserError
}

// JSON renders the envelope as indented JSON.
func (e *Envelope) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// successEnvelope builds the success wrapper around a sanitized result.
func successEnvelope(result any, meta *Meta) *Envelope {
	return &Envelope{OK: true, Result: result, Meta: meta}
}

// failureEnvelope converts any error into the uniform failure wrapper. The
// sanitizer runs over the message so error text follows the same rules as
// results.
func failureEnvelope(err error, s *Sanitizer) *Envelope {
	coded := errors.AsCoded(err)
	obj := &ErrorObject{
		Code:       coded.ErrorCode(),
		Message:    s.String(coded.Error()),
		Category:   string(coded.ErrorCategory()),
		Suggestion: errors.SuggestionOf(coded),
		Details:    errors.DetailsOf(coded),
	}
	return &Envelope{OK: false, Error: obj}
}
