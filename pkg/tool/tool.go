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

// Package tool derives consumer-facing views of the command registry.
//
// A ToolDef is the portable projection of a command as one consumer sees it.
// Providers produce ToolDef lists, transforms reshape them, and the resulting
// View feeds every export surface: CLI dispatch, schema export, manifest
// export, and the MCP server. Export surfaces consume the already-transformed
// view and never re-derive visibility or namespace decisions themselves.
package tool

import (
	"context"

	"github.com/spoolkit/spool/pkg/command"
)

// Deprecation is the deprecation metadata projected onto a ToolDef.
type Deprecation struct {
	Message string `json:"message,omitempty"`
	Version string `json:"version,omitempty"`
}

// ToolDef describes one invocable operation as seen by a view. The Name is
// the exposed identifier after aliasing and transforms, independent of the
// underlying command's (base name, version) pair.
//
// ToolDefs are created fresh on every view build and never mutated after
// construction; transforms produce new instances.
type ToolDef struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Params      []command.ParamSpec `json:"params,omitempty"`
	Hidden      bool                `json:"hidden,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Version     string              `json:"version,omitempty"`
	Deprecated  *Deprecation        `json:"deprecated,omitempty"`
	Destructive bool                `json:"destructive,omitempty"`
	Metadata    map[string]string   `json:"metadata,omitempty"`

	// Pinned marks version-suffixed entries ("{base}-v{version}") as opposed
	// to the bare "latest" alias.
	Pinned bool `json:"-"`

	// Source is the registry command behind this def; nil for tools supplied
	// by external providers that bypass the registry.
	Source *command.Command `json:"-"`
}

// HasTag reports whether the def carries the given tag.
func (d ToolDef) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Provider exposes a list of tool definitions. Providers may be backed by
// the in-process registry, a manifest directory, or anything else that can
// enumerate operations.
type Provider interface {
	Tools(ctx context.Context) ([]ToolDef, error)
}

// StaticProvider serves a fixed ToolDef list. Useful for embedding and tests.
type StaticProvider []ToolDef

// Tools implements Provider.
func (p StaticProvider) Tools(ctx context.Context) ([]ToolDef, error) {
	out := make([]ToolDef, len(p))
	copy(out, p)
	return out, nil
}

// RegistryProvider projects a command registry into ToolDefs: one bare entry
// per base name routed to the latest version, plus a pinned entry for every
// versioned command.
type RegistryProvider struct {
	Registry *command.Registry
}

// Tools implements Provider.
func (p *RegistryProvider) Tools(ctx context.Context) ([]ToolDef, error) {
	entries := p.Registry.Entries()
	defs := make([]ToolDef, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, fromCommand(e.Token, e.Command, e.Pinned))
	}
	return defs, nil
}

// fromCommand builds the portable projection of a registry command under a
// given dispatch token.
func fromCommand(token string, cmd *command.Command, pinned bool) ToolDef {
	def := ToolDef{
		Name:        token,
		Description: cmd.Summary,
		Params:      append([]command.ParamSpec(nil), cmd.Params...),
		Hidden:      cmd.Hidden,
		Tags:        append([]string(nil), cmd.Tags...),
		Version:     cmd.VersionString(),
		Destructive: cmd.Destructive,
		Pinned:      pinned,
		Source:      cmd,
	}
	if len(cmd.Metadata) > 0 {
		def.Metadata = make(map[string]string, len(cmd.Metadata))
		for k, v := range cmd.Metadata {
			def.Metadata[k] = v
		}
	}
	if cmd.Deprecated {
		dep := &Deprecation{Message: cmd.DeprecatedMessage}
		if cmd.DeprecatedVersion != nil {
			dep.Version = cmd.DeprecatedVersion.String()
		}
		def.Deprecated = dep
	}
	return def
}
