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

import (
	"os"

	"golang.org/x/term"
)

// IsNonInteractive detects a non-interactive execution context.
// Checked in priority order:
//
//  1. SPOOL_NON_INTERACTIVE=true environment variable
//  2. CI environment detection (CI, GITHUB_ACTIONS, GITLAB_CI, CIRCLECI,
//     JENKINS_HOME)
//  3. stdin is not a TTY
func IsNonInteractive() bool {
	if os.Getenv("SPOOL_NON_INTERACTIVE") == "true" {
		return true
	}
	if isCIEnvironment() {
		return true
	}
	return !isTerminal()
}

func isCIEnvironment() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "JENKINS_HOME"}

	for _, envVar := range ciVars {
		value := os.Getenv(envVar)
		if value == "true" || value == "1" {
			return true
		}
		// JENKINS_HOME is set to a path; any non-empty value counts.
		if envVar == "JENKINS_HOME" && value != "" {
			return true
		}
	}
	return false
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
