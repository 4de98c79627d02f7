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
	"regexp"
	"sort"
	"strings"
)

// RedactionMarker replaces shell-injection-shaped substrings in output.
const RedactionMarker = "[redacted]"

var (
	// ansiPattern matches CSI/OSC and other terminal escape sequences.
	ansiPattern = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)|[@-Z\\-_])`)

	// Shell-injection shapes: command substitution, parameter/brace
	// expansion, and process substitution.
	cmdSubPattern   = regexp.MustCompile(`\$\([^)]*\)`)
	braceExpPattern = regexp.MustCompile(`\$\{[^}]*\}`)
	procSubPattern  = regexp.MustCompile(`[<>]\([^)]*\)`)

	// backtickPattern captures any backtick-delimited span; a heuristic
	// then separates command substitution from documentation syntax.
	backtickPattern = regexp.MustCompile("`[^`]*`")
)

// shellMetaChars inside a backtick span mark it as a command rather than a
// quoted identifier.
const shellMetaChars = "$|&;<>"

// Sanitizer cleans string output before it reaches any rendering surface.
// Three independent passes run in order: terminal escape stripping,
// control-character stripping, and shell-injection redaction.
type Sanitizer struct{}

// NewSanitizer creates a sanitizer with the default pass set.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// String applies all three passes to one string.
func (s *Sanitizer) String(in string) string {
	out := ansiPattern.ReplaceAllString(in, "")
	out = stripControl(out)
	out = redactShellShapes(out)
	return out
}

// Value recursively sanitizes every string leaf of a result value. Maps and
// sequences are rebuilt rather than mutated. JSON rendering of maps already
// orders keys deterministically; SortedKeys is provided for textual
// renderers that need the same guarantee.
func (s *Sanitizer) Value(v any) any {
	switch val := v.(type) {
	case string:
		return s.String(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[s.String(k)] = s.Value(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, inner := range val {
			out[s.String(k)] = s.String(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = s.Value(inner)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, inner := range val {
			out[i] = s.String(inner)
		}
		return out
	default:
		return v
	}
}

// stripControl removes non-printable control characters, keeping tabs and
// newlines so multi-line tool output survives.
func stripControl(in string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, in)
}

// redactShellShapes replaces injection-shaped substrings with the marker.
//
// Backtick spans are ambiguous: `rm -rf /` is command substitution while
// `Name[T]` is documentation syntax for a generic type. The discriminator:
// a span is redacted only when it contains whitespace or a shell
// metacharacter; a single identifier-with-brackets token passes through.
func redactShellShapes(in string) string {
	out := cmdSubPattern.ReplaceAllString(in, RedactionMarker)
	out = braceExpPattern.ReplaceAllString(out, RedactionMarker)
	out = procSubPattern.ReplaceAllString(out, RedactionMarker)
	out = backtickPattern.ReplaceAllStringFunc(out, func(span string) string {
		inner := span[1 : len(span)-1]
		if strings.ContainsAny(inner, " \t") || strings.ContainsAny(inner, shellMetaChars) {
			return RedactionMarker
		}
		return span
	})
	return out
}

// SortedKeys returns a map's keys in stable order for textual rendering.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
