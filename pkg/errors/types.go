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

// Package errors defines the failure taxonomy shared by every Spool surface.
//
// Each error kind carries a stable E#### code and a category; the invocation
// pipeline converts them into the uniform error envelope, so the same failure
// renders identically on the CLI, in JSON output, and over MCP.
package errors

import (
	"fmt"
	"strings"
)

// RemovedError is returned when a deprecated command is invoked at or past
// its removal version. The callback never runs.
type RemovedError struct {
	// Command is the dispatch token that was invoked.
	Command string

	// DeprecatedVersion is the host application version at which the
	// command became unreachable.
	DeprecatedVersion string

	// Message is the registrant-supplied deprecation message, if any.
	Message string
}

// Error implements the error interface.
func (e *RemovedError) Error() string {
	return fmt.Sprintf("command %s was removed in v%s", e.Command, e.DeprecatedVersion)
}

func (e *RemovedError) ErrorCode() string       { return CodeRemoved }
func (e *RemovedError) ErrorCategory() Category { return CategoryDeprecation }

// ErrorSuggestion points callers at the registrant's migration guidance.
func (e *RemovedError) ErrorSuggestion() *Suggestion {
	return &Suggestion{
		Action: "migrate command usage",
		Fix:    e.Message,
	}
}

func (e *RemovedError) ErrorDetails() map[string]any {
	return map[string]any{"deprecated_version": e.DeprecatedVersion}
}

// RegistrationConflictError is returned by Registry.Register when the
// (base name, version) pair is already taken, or when an unversioned command
// and a versioned lineage would share a base name.
type RegistrationConflictError struct {
	BaseName string
	Version  string // empty for the unversioned lineage
	Reason   string
}

// Error implements the error interface.
func (e *RegistrationConflictError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("command %s v%s already registered: %s", e.BaseName, e.Version, e.Reason)
	}
	return fmt.Sprintf("command %s already registered: %s", e.BaseName, e.Reason)
}

func (e *RegistrationConflictError) ErrorCode() string       { return CodeRegistrationConflict }
func (e *RegistrationConflictError) ErrorCategory() Category { return CategoryConflict }

// ValidationError represents user input validation failures.
// Use this for invalid flag values, missing required parameters, or
// constraint violations.
type ValidationError struct {
	// Field identifies which input failed validation.
	Field string

	// Message is the human-readable error description.
	Message string

	// Fix provides actionable guidance for fixing the error.
	Fix string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) ErrorCode() string       { return CodeValidation }
func (e *ValidationError) ErrorCategory() Category { return CategoryValidation }

func (e *ValidationError) ErrorSuggestion() *Suggestion {
	if e.Fix == "" {
		return nil
	}
	return &Suggestion{Action: "correct the input", Fix: e.Fix}
}

// NotFoundError represents an unknown dispatch token or resource.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "command", "view", "manifest").
	Resource string

	// ID is the identifier that was not found.
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) ErrorCode() string       { return CodeNotFound }
func (e *NotFoundError) ErrorCategory() Category { return CategoryNotFound }

// SecurityDeniedError is returned when the security gate refuses a
// destructive command without sufficient authorization.
type SecurityDeniedError struct {
	// Command is the dispatch token that was refused.
	Command string

	// Policy is the effective security policy (standard, strict).
	Policy string

	// Reason explains why the gate refused.
	Reason string
}

// Error implements the error interface.
func (e *SecurityDeniedError) Error() string {
	return fmt.Sprintf("command %s denied by %s security policy: %s", e.Command, e.Policy, e.Reason)
}

func (e *SecurityDeniedError) ErrorCode() string       { return CodeSecurityDenied }
func (e *SecurityDeniedError) ErrorCategory() Category { return CategorySecurity }

func (e *SecurityDeniedError) ErrorSuggestion() *Suggestion {
	fix := "re-run with --force"
	if e.Policy != "strict" {
		fix = "re-run with --yes or --force"
	}
	return &Suggestion{Action: "confirm the destructive operation", Fix: fix}
}

func (e *SecurityDeniedError) ErrorDetails() map[string]any {
	return map[string]any{"policy": e.Policy}
}

// PromptUnavailableError is returned when confirmation is required but
// neither stdin nor the console device is available for prompting.
type PromptUnavailableError struct {
	// Device is the console device that could not be opened.
	Device string

	// Cause is the underlying open error.
	Cause error
}

// Error implements the error interface.
func (e *PromptUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("confirmation required but %s is unavailable: %v", e.Device, e.Cause)
	}
	return fmt.Sprintf("confirmation required but %s is unavailable", e.Device)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *PromptUnavailableError) Unwrap() error { return e.Cause }

func (e *PromptUnavailableError) ErrorCode() string       { return CodePromptUnavailable }
func (e *PromptUnavailableError) ErrorCategory() Category { return CategorySecurity }

func (e *PromptUnavailableError) ErrorSuggestion() *Suggestion {
	return &Suggestion{
		Action:  "bypass the interactive prompt",
		Fix:     "re-run with --yes, or set SPOOL_NO_CONFIRM=1 in non-interactive environments",
		Example: "spool <command> --yes",
	}
}

// InvalidConfirmationError is returned when a confirmation answer cannot
// be interpreted.
type InvalidConfirmationError struct {
	// Answer is the raw line the user entered.
	Answer string
}

// acceptedAnswers lists all inputs the confirmation prompt understands.
var acceptedAnswers = []string{"y", "yes", "n", "no", ""}

// Error implements the error interface.
func (e *InvalidConfirmationError) Error() string {
	return fmt.Sprintf("unrecognized confirmation answer %q", e.Answer)
}

func (e *InvalidConfirmationError) ErrorCode() string       { return CodeInvalidConfirmation }
func (e *InvalidConfirmationError) ErrorCategory() Category { return CategoryValidation }

func (e *InvalidConfirmationError) ErrorSuggestion() *Suggestion {
	return &Suggestion{
		Action: "answer the prompt again",
		Fix:    fmt.Sprintf("accepted answers: %s (empty line takes the default)", strings.Join(acceptedAnswers[:4], ", ")),
	}
}

func (e *InvalidConfirmationError) ErrorDetails() map[string]any {
	return map[string]any{"answer": e.Answer, "accepted": acceptedAnswers[:4]}
}

// InternalError wraps any uncaught failure from a command callback.
// It maps to the software-error exit code and must never crash the host.
type InternalError struct {
	// Op describes what was executing when the failure occurred.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("internal error in %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("internal error: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *InternalError) Unwrap() error { return e.Cause }

func (e *InternalError) ErrorCode() string       { return CodeInternal }
func (e *InternalError) ErrorCategory() Category { return CategoryInternal }
