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
	"reflect"
	"strings"
	"testing"
)

func TestSanitizerString(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "forty-two files processed",
			want: "forty-two files processed",
		},
		{
			name: "csi color codes stripped",
			in:   "\x1b[31mred\x1b[0m text",
			want: "red text",
		},
		{
			name: "osc title sequence stripped",
			in:   "\x1b]0;evil title\x07output",
			want: "output",
		},
		{
			name: "control characters stripped",
			in:   "a\x00b\x07c\x7fd",
			want: "abcd",
		},
		{
			name: "newlines and tabs survive",
			in:   "line one\n\tline two\r\n",
			want: "line one\n\tline two\r\n",
		},
		{
			name: "command substitution redacted",
			in:   "result: $(rm -rf /)",
			want: "result: [redacted]",
		},
		{
			name: "brace expansion redacted",
			in:   "home is ${HOME}",
			want: "home is [redacted]",
		},
		{
			name: "process substitution redacted",
			in:   "diff <(cat a) >(cat b)",
			want: "diff [redacted] [redacted]",
		},
		{
			name: "backtick command redacted",
			in:   "ran `rm -rf /tmp` earlier",
			want: "ran [redacted] earlier",
		},
		{
			name: "backtick with metachar redacted",
			in:   "value `a$b`",
			want: "value [redacted]",
		},
		{
			name: "backtick generic type preserved",
			in:   "see `Name[T]` for details",
			want: "see `Name[T]` for details",
		},
		{
			name: "backtick identifier preserved",
			in:   "call `BuildView` first",
			want: "call `BuildView` first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.String(tt.in)
			if got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizerStringNoInjectionResidue(t *testing.T) {
	s := NewSanitizer()

	if out := s.String("$(rm -rf /)"); strings.Contains(out, "$(") {
		t.Errorf("output still contains %q: %q", "$(", out)
	}
	if out := s.String("${HOME}"); strings.Contains(out, "${") {
		t.Errorf("output still contains %q: %q", "${", out)
	}
}

func TestSanitizerValue(t *testing.T) {
	s := NewSanitizer()

	in := map[string]any{
		"message": "\x1b[1mdone\x1b[0m",
		"nested": map[string]any{
			"cmd": "$(whoami)",
		},
		"list":  []any{"${PATH}", 7},
		"names": []string{"`a b`", "`Name[T]`"},
		"count": 3,
	}
	want := map[string]any{
		"message": "done",
		"nested": map[string]any{
			"cmd": "[redacted]",
		},
		"list":  []any{"[redacted]", 7},
		"names": []string{"[redacted]", "`Name[T]`"},
		"count": 3,
	}

	got := s.Value(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Value() = %#v, want %#v", got, want)
	}

	// Input must not be mutated.
	if in["message"] != "\x1b[1mdone\x1b[0m" {
		t.Error("Value() mutated its input")
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]any{"b": 1, "a": 2, "c": 3})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}
