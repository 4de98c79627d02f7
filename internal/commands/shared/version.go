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

package shared

// Build-time version information, overridden via -ldflags.
var (
	version   = "0.1.0"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the build information (called from main).
func SetVersion(v, c, b string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if b != "" {
		buildDate = b
	}
}

// GetVersion returns the build information.
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}
