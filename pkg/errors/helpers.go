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

import (
	"errors"
	"fmt"
)

// Wrap creates a new error that wraps the given error with additional context.
// If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf creates a new error that wraps the given error with formatted context.
// If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// As finds the first error in err's tree that matches target type.
// Convenience wrapper around errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is reports whether any error in err's tree matches target.
// Convenience wrapper around errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// AsCoded extracts the first Coded error in err's tree. When none exists,
// it returns an InternalError wrapping err, so every failure has a code.
func AsCoded(err error) Coded {
	var coded Coded
	if errors.As(err, &coded) {
		return coded
	}
	return &InternalError{Cause: err}
}

// SuggestionOf returns the suggestion attached to err, if any error in the
// tree carries one.
func SuggestionOf(err error) *Suggestion {
	for err != nil {
		if s, ok := err.(Suggester); ok {
			return s.ErrorSuggestion()
		}
		err = errors.Unwrap(err)
	}
	return nil
}

// DetailsOf returns the structured details attached to err, if any error in
// the tree carries them.
func DetailsOf(err error) map[string]any {
	for err != nil {
		if d, ok := err.(Detailer); ok {
			return d.ErrorDetails()
		}
		err = errors.Unwrap(err)
	}
	return nil
}
