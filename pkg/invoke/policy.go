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

import "strings"

// Policy is the effective security policy applied to destructive commands.
type Policy string

const (
	// PolicyOff disables the security gate entirely.
	PolicyOff Policy = "off"

	// PolicyStandard proceeds on --force, --yes, or the non-interactive
	// bypass signal, and otherwise requires interactive confirmation.
	PolicyStandard Policy = "standard"

	// PolicyStrict ignores --yes and the bypass signal; only --force or an
	// explicit human confirmation may proceed.
	PolicyStrict Policy = "strict"
)

// PolicyEnvVar overrides the security policy when no explicit setting is
// supplied. Resolution happens once at startup, never mid-execution.
const PolicyEnvVar = "SPOOL_SECURITY"

// BypassEnvVar is the non-interactive bypass signal: a truthy value
// satisfies the confirmation requirement under the standard policy.
const BypassEnvVar = "SPOOL_NO_CONFIRM"

// ResolvePolicy applies the precedence chain: explicit setting, then
// environment override, then the standard default. Unrecognized values fall
// back to standard rather than failing open.
func ResolvePolicy(explicit string, getenv func(string) string) Policy {
	raw := explicit
	if raw == "" && getenv != nil {
		raw = getenv(PolicyEnvVar)
	}

	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicyOff:
		return PolicyOff
	case PolicyStrict:
		return PolicyStrict
	default:
		return PolicyStandard
	}
}

// Truthy interprets an environment signal value: 1, true, yes (any case).
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
