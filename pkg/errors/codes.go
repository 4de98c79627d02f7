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

package errors

// Stable error codes surfaced in result envelopes and telemetry records.
// Codes are part of the external contract and must not be renumbered.
const (
	// CodeRemoved indicates a command invoked past its removal version.
	CodeRemoved = "E1001"

	// CodeRegistrationConflict indicates a duplicate (base name, version) pair.
	CodeRegistrationConflict = "E1002"

	// CodeValidation indicates invalid or missing user input.
	CodeValidation = "E1003"

	// CodeNotFound indicates an unknown dispatch token or resource.
	CodeNotFound = "E1004"

	// CodeSecurityDenied indicates the security gate refused a destructive command.
	CodeSecurityDenied = "E1005"

	// CodePromptUnavailable indicates confirmation was required but no
	// interactive device could be opened.
	CodePromptUnavailable = "E1007"

	// CodeInvalidConfirmation indicates an unparsable confirmation answer.
	CodeInvalidConfirmation = "E1008"

	// CodeInternal indicates an uncaught failure inside a command callback.
	CodeInternal = "E5000"
)

// Category classifies errors for envelopes and telemetry.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategorySecurity    Category = "security"
	CategoryNotFound    Category = "not_found"
	CategoryConflict    Category = "conflict"
	CategoryDeprecation Category = "deprecation"
	CategoryInternal    Category = "internal"
)

// Suggestion carries actionable guidance attached to an error.
// All fields are optional; empty fields are omitted from JSON output.
type Suggestion struct {
	Action  string `json:"action,omitempty"`
	Fix     string `json:"fix,omitempty"`
	Example string `json:"example,omitempty"`
}

// Coded is implemented by every error kind in this package. The invocation
// pipeline uses it to build failure envelopes without knowing concrete types.
type Coded interface {
	error

	// ErrorCode returns the stable E#### code for this error.
	ErrorCode() string

	// ErrorCategory returns the envelope/telemetry category.
	ErrorCategory() Category
}

// Suggester is implemented by error kinds that carry actionable guidance.
type Suggester interface {
	ErrorSuggestion() *Suggestion
}

// Detailer is implemented by error kinds that carry structured details
// for the envelope's details object.
type Detailer interface {
	ErrorDetails() map[string]any
}
