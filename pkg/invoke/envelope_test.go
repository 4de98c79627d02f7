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
	"fmt"
	"strings"
	"testing"

	"github.com/spoolkit/spool/pkg/errors"
)

func TestEnvelopeExitCode(t *testing.T) {
	tests := []struct {
		name string
		env  *Envelope
		want int
	}{
		{
			name: "success",
			env:  successEnvelope(map[string]any{"ok": true}, &Meta{Tool: "spool.greet"}),
			want: ExitSuccess,
		},
		{
			name: "validation failure",
			env:  failureEnvelope(&errors.ValidationError{Field: "name", Message: "required"}, NewSanitizer()),
			want: ExitUserError,
		},
		{
			name: "removed command",
			env:  failureEnvelope(&errors.RemovedError{Command: "greet-v1.0.0", DeprecatedVersion: "2.0.0"}, NewSanitizer()),
			want: ExitUserError,
		},
		{
			name: "security denied",
			env:  failureEnvelope(&errors.SecurityDeniedError{Command: "purge", Policy: "standard"}, NewSanitizer()),
			want: ExitUserError,
		},
		{
			name: "internal failure",
			env:  failureEnvelope(&errors.InternalError{Op: "greet", Cause: fmt.Errorf("boom")}, NewSanitizer()),
			want: ExitInternal,
		},
		{
			name: "uncoded error treated as internal",
			env:  failureEnvelope(fmt.Errorf("plain"), NewSanitizer()),
			want: ExitInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFailureEnvelopeShape(t *testing.T) {
	err := &errors.RemovedError{
		Command:           "greet-v1.0.0",
		DeprecatedVersion: "2.0.0",
		Message:           "use greet-v2.0.0",
	}
	env := failureEnvelope(err, NewSanitizer())

	if env.OK {
		t.Fatal("OK = true, want false")
	}
	if env.Error == nil {
		t.Fatal("Error = nil")
	}
	if env.Error.Code != errors.CodeRemoved {
		t.Errorf("code = %q, want %q", env.Error.Code, errors.CodeRemoved)
	}
	if env.Error.Category != string(errors.CategoryDeprecation) {
		t.Errorf("category = %q, want %q", env.Error.Category, errors.CategoryDeprecation)
	}
	if env.Error.Suggestion == nil {
		t.Error("suggestion missing")
	}
	if env.Error.Details["deprecated_version"] != "2.0.0" {
		t.Errorf("details = %v, want deprecated_version=2.0.0", env.Error.Details)
	}
}

func TestFailureEnvelopeSanitizesMessage(t *testing.T) {
	err := &errors.ValidationError{Field: "cmd", Message: "rejected $(rm -rf /)"}
	env := failureEnvelope(err, NewSanitizer())

	if got := env.Error.Message; got == "" || strings.Contains(got, "$(") {
		t.Errorf("message not sanitized: %q", got)
	}
}

func TestEnvelopeJSONOmitsEmptyFields(t *testing.T) {
	env := successEnvelope("hi", &Meta{Tool: "spool.greet", Version: "1.0.0"})
	data, err := env.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded["error"]; ok {
		t.Error("success envelope carries an error field")
	}
	meta := decoded["meta"].(map[string]any)
	if _, ok := meta["warnings"]; ok {
		t.Error("empty warnings serialized")
	}
}
