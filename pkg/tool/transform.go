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

package tool

import (
	"github.com/Masterminds/semver/v3"
)

// Transform is a pure mapping over a ToolDef list. Implementations must not
// mutate their input and must preserve the relative order of surviving
// elements. Transforms compose left-to-right; composition is explicit and
// nothing is idempotent (namespacing twice prefixes twice).
type Transform interface {
	Apply(defs []ToolDef) []ToolDef
}

// NamespaceTransform renames every tool to "{prefix}{separator}{name}".
// Hidden flags, tags, and metadata are untouched.
type NamespaceTransform struct {
	Prefix    string
	Separator string // defaults to "_"
}

// Apply implements Transform.
func (t NamespaceTransform) Apply(defs []ToolDef) []ToolDef {
	sep := t.Separator
	if sep == "" {
		sep = "_"
	}
	out := make([]ToolDef, len(defs))
	for i, d := range defs {
		d.Name = t.Prefix + sep + d.Name
		out[i] = d
	}
	return out
}

// VisibilityTransform filters tools by hidden flag and tag membership.
// Tag tests use non-empty-intersection semantics, not subset: a tool
// survives IncludeTags if it carries at least one of them, and is dropped
// by ExcludeTags if it carries any of them.
type VisibilityTransform struct {
	IncludeTags   []string
	ExcludeTags   []string
	IncludeHidden bool
}

// Apply implements Transform.
func (t VisibilityTransform) Apply(defs []ToolDef) []ToolDef {
	out := make([]ToolDef, 0, len(defs))
	for _, d := range defs {
		if d.Hidden && !t.IncludeHidden {
			continue
		}
		if intersects(d.Tags, t.ExcludeTags) {
			continue
		}
		if len(t.IncludeTags) > 0 && !intersects(d.Tags, t.IncludeTags) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// VersionFilter keeps entries whose command version lies within
// [Min, Max] inclusive. The decision uses the registry's version metadata
// carried on each def: pinned entries are judged by their own version, and
// the bare "latest" alias survives independently based on the true latest
// version's membership in the range. Unversioned entries carry no version
// metadata and always survive.
type VersionFilter struct {
	Min *semver.Version
	Max *semver.Version
}

// Apply implements Transform.
func (t VersionFilter) Apply(defs []ToolDef) []ToolDef {
	out := make([]ToolDef, 0, len(defs))
	for _, d := range defs {
		if d.Version == "" {
			out = append(out, d)
			continue
		}
		v, err := semver.StrictNewVersion(d.Version)
		if err != nil {
			out = append(out, d)
			continue
		}
		if t.Min != nil && v.LessThan(t.Min) {
			continue
		}
		if t.Max != nil && v.GreaterThan(t.Max) {
			continue
		}
		out = append(out, d)
	}
	return out
}
