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

package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/spoolkit/spool/pkg/errors"
)

// versionTokenSep joins a base name and a pinned version into a dispatch
// token: "{base}-v{version}".
const versionTokenSep = "-v"

// Registry owns the canonical set of registered commands, grouped by base
// name. It performs version grouping, latest-selection, and alias generation.
type Registry struct {
	mu sync.RWMutex

	// lineages maps base name to the commands registered under it,
	// in registration order.
	lineages map[string][]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		lineages: make(map[string][]*Command),
	}
}

// Register adds a command to the registry.
//
// Registration fails with a RegistrationConflictError when the
// (base name, version) pair is already taken, or when an unversioned command
// would share a base name with a versioned lineage (and vice versa); the
// two addressing schemes do not coexist.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("cannot register nil command")
	}
	if cmd.BaseName == "" {
		return fmt.Errorf("command base name cannot be empty")
	}
	if strings.Contains(cmd.BaseName, versionTokenSep) {
		return fmt.Errorf("command base name %q may not contain %q", cmd.BaseName, versionTokenSep)
	}
	if cmd.Run == nil {
		return fmt.Errorf("command %s has no handler", cmd.BaseName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lineage := r.lineages[cmd.BaseName]
	for _, existing := range lineage {
		switch {
		case existing.Version == nil && cmd.Version == nil:
			return &errors.RegistrationConflictError{
				BaseName: cmd.BaseName,
				Reason:   "duplicate unversioned command",
			}
		case existing.Version == nil || cmd.Version == nil:
			return &errors.RegistrationConflictError{
				BaseName: cmd.BaseName,
				Version:  cmd.VersionString(),
				Reason:   "unversioned command cannot share a base name with a versioned lineage",
			}
		case existing.Version.Equal(cmd.Version):
			return &errors.RegistrationConflictError{
				BaseName: cmd.BaseName,
				Version:  cmd.VersionString(),
				Reason:   "duplicate version",
			}
		}
	}

	r.lineages[cmd.BaseName] = append(lineage, cmd)
	return nil
}

// Resolve maps a dispatch token to exactly one command.
//
// A bare base name resolves to the numerically greatest version in the
// lineage (or the sole unversioned command). A "{base}-v{version}" token
// resolves to that exact version regardless of whether it is the latest.
func (r *Registry) Resolve(token string) (*Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if lineage, ok := r.lineages[token]; ok {
		return latestOf(lineage), nil
	}

	// Pinned token: split on the last "-v" so base names containing
	// hyphens still resolve.
	if idx := strings.LastIndex(token, versionTokenSep); idx > 0 {
		base := token[:idx]
		raw := token[idx+len(versionTokenSep):]
		if v, err := semver.StrictNewVersion(raw); err == nil {
			for _, cmd := range r.lineages[base] {
				if cmd.Version != nil && cmd.Version.Equal(v) {
					return cmd, nil
				}
			}
		}
	}

	return nil, &errors.NotFoundError{Resource: "command", ID: token}
}

// Latest returns the command reachable under the bare base name token,
// or nil if the base name is unknown.
func (r *Registry) Latest(base string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return latestOf(r.lineages[base])
}

// BaseNames returns all registered base names, sorted.
func (r *Registry) BaseNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.lineages))
	for name := range r.lineages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lineage returns the commands registered under a base name, ordered by
// ascending version (an unversioned command is the lineage's only member).
func (r *Registry) Lineage(base string) []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lineage := r.lineages[base]
	out := make([]*Command, len(lineage))
	copy(out, lineage)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version == nil || out[j].Version == nil {
			return false
		}
		return out[i].Version.LessThan(out[j].Version)
	})
	return out
}

// Entry is one dispatch-table row derived from the registry: a token plus
// the command it resolves to. Pinned entries carry the synthetic
// "{base}-v{version}" token.
type Entry struct {
	Token   string
	Command *Command
	Pinned  bool
}

// Entries generates the full dispatch table: one bare entry per base name
// (latest or sole unversioned command) followed by one pinned entry per
// versioned command, base names sorted, versions ascending.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bases := make([]string, 0, len(r.lineages))
	for name := range r.lineages {
		bases = append(bases, name)
	}
	sort.Strings(bases)

	var entries []Entry
	for _, base := range bases {
		lineage := make([]*Command, len(r.lineages[base]))
		copy(lineage, r.lineages[base])
		sort.SliceStable(lineage, func(i, j int) bool {
			if lineage[i].Version == nil || lineage[j].Version == nil {
				return false
			}
			return lineage[i].Version.LessThan(lineage[j].Version)
		})

		entries = append(entries, Entry{Token: base, Command: latestOf(lineage)})
		for _, cmd := range lineage {
			if cmd.Version != nil {
				entries = append(entries, Entry{
					Token:   PinnedToken(base, cmd.Version),
					Command: cmd,
					Pinned:  true,
				})
			}
		}
	}
	return entries
}

// PinnedToken builds the version-pinned dispatch token for a command.
func PinnedToken(base string, v *semver.Version) string {
	return base + versionTokenSep + v.String()
}

// latestOf selects the numerically greatest version from a lineage, falling
// back to the sole unversioned member. Versions compare component-wise as
// integers, never lexically.
func latestOf(lineage []*Command) *Command {
	var latest *Command
	for _, cmd := range lineage {
		switch {
		case latest == nil:
			latest = cmd
		case cmd.Version != nil && latest.Version != nil && cmd.Version.GreaterThan(latest.Version):
			latest = cmd
		}
	}
	return latest
}
