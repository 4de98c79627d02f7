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

// Package shared holds helpers used across all spool subcommands.
package shared

import (
	"errors"
	"fmt"
	"os"

	pkgerrors "github.com/spoolkit/spool/pkg/errors"
	"github.com/spoolkit/spool/pkg/invoke"
)

// ExitError carries a process exit code alongside the error.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an ExitError for user-correctable failures.
func NewUserError(msg string, cause error) *ExitError {
	return &ExitError{Code: invoke.ExitUserError, Message: msg, Cause: cause}
}

// NewInternalError creates an ExitError for internal failures.
func NewInternalError(msg string, cause error) *ExitError {
	return &ExitError{Code: invoke.ExitInternal, Message: msg, Cause: cause}
}

// HandleExitError prints err and exits with its code. Coded errors map
// through the envelope exit-code rules; unclassified errors exit 70.
func HandleExitError(err error) {
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		// A bare code means the failure was already rendered (the
		// envelope path); only the exit status remains.
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
			printSuggestion(err)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	printSuggestion(err)

	coded := pkgerrors.AsCoded(err)
	if coded.ErrorCategory() == pkgerrors.CategoryInternal {
		os.Exit(invoke.ExitInternal)
	}
	os.Exit(invoke.ExitUserError)
}

// printSuggestion surfaces the structured fix hint when the error chain
// carries one.
func printSuggestion(err error) {
	if s := pkgerrors.SuggestionOf(err); s != nil && s.Fix != "" {
		fmt.Fprintln(os.Stderr, Muted.Render("Hint: "+s.Fix))
	}
}
