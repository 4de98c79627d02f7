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

// Package command provides the versioned command registry.
//
// A Command is one invocable operation. Several Commands may share a base
// name and differ only by semantic version; the registry keeps the whole
// lineage addressable while routing the bare base name to the latest version.
package command

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/spoolkit/spool/pkg/errors"
)

// Handler is the callback executed when a command is invoked. Inputs arrive
// as a typed argument mapping produced by the argument parser; outputs are
// returned as a map that the pipeline sanitizes and wraps in the envelope.
type Handler func(ctx context.Context, args map[string]any) (map[string]any, error)

// ParamType is the declared type tag of a command parameter.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeInt         ParamType = "int"
	TypeFloat       ParamType = "float"
	TypeBool        ParamType = "bool"
	TypeStringSlice ParamType = "strings"
)

// JSONType maps a ParamType to its JSON Schema type name for export surfaces.
func (t ParamType) JSONType() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeStringSlice:
		return "array"
	default:
		return "string"
	}
}

// ParamSpec is an explicit, statically built parameter descriptor. It is the
// single source of truth for both the argument parser and the export schema;
// no runtime introspection of handlers is performed.
type ParamSpec struct {
	// Name is the parameter name as exposed to every surface.
	Name string `json:"name" yaml:"name"`

	// Type is the declared type tag.
	Type ParamType `json:"type" yaml:"type"`

	// Required marks the parameter as mandatory.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Default is used when the parameter is absent and not required.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Help is the one-line description shown in help and schema output.
	Help string `json:"help,omitempty" yaml:"help,omitempty"`

	// Enum lists allowed values, when the parameter is constrained.
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Command describes one registered operation.
//
// Commands are treated as immutable after registration. The registry indexes
// them by (BaseName, Version); an absent Version forms its own singleton
// unversioned lineage.
type Command struct {
	// BaseName is the logical name shared across versions (e.g. "search").
	BaseName string

	// Version is the command's semantic version; nil for unversioned commands.
	Version *semver.Version

	// Summary is the one-line description.
	Summary string

	// Description is the long-form help text; falls back to Summary when empty.
	Description string

	// Params declares the parameter schema.
	Params []ParamSpec

	// Run is the callback handle.
	Run Handler

	// Hidden excludes the command from default views.
	Hidden bool

	// Tags label the command for visibility filtering.
	Tags []string

	// Destructive subjects the command to the security gate.
	Destructive bool

	// Deprecated marks the command for eventual removal.
	Deprecated bool

	// DeprecatedMessage is shown as a warning while the command still works
	// and as the migration hint once it is removed.
	DeprecatedMessage string

	// DeprecatedVersion is the host application version at which the command
	// becomes unreachable. Nil means deprecated-but-never-removed.
	DeprecatedVersion *semver.Version

	// Metadata carries free-form key/value annotations.
	Metadata map[string]string
}

// Lifecycle is the deprecation state of a command relative to a host version.
type Lifecycle int

const (
	// LifecycleActive commands invoke normally.
	LifecycleActive Lifecycle = iota

	// LifecycleDeprecated commands invoke normally but attach warnings.
	LifecycleDeprecated

	// LifecycleRemoved commands are refused before the callback runs.
	LifecycleRemoved
)

// LifecycleAt evaluates the deprecation state machine against the host
// application version. The check is a pure comparison; no registry state
// changes when a command crosses its removal threshold.
func (c *Command) LifecycleAt(host *semver.Version) Lifecycle {
	if !c.Deprecated || c.DeprecatedVersion == nil {
		return LifecycleActive
	}
	if host != nil && !host.LessThan(c.DeprecatedVersion) {
		return LifecycleRemoved
	}
	return LifecycleDeprecated
}

// DeprecationWarnings returns the warning lines attached to the envelope
// while the command is in the deprecated-warn state.
func (c *Command) DeprecationWarnings() []string {
	var warnings []string
	if c.DeprecatedMessage != "" {
		warnings = append(warnings, c.DeprecatedMessage)
	}
	if c.DeprecatedVersion != nil {
		warnings = append(warnings, fmt.Sprintf("Scheduled for removal in v%s.", c.DeprecatedVersion))
	}
	return warnings
}

// Help returns the long description, falling back to the summary.
func (c *Command) Help() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Summary
}

// VersionString returns the command version, or "" for unversioned commands.
func (c *Command) VersionString() string {
	if c.Version == nil {
		return ""
	}
	return c.Version.String()
}

// ValidateArgs checks a parsed argument mapping against the declared
// parameter schema: required parameters must be present, enum-constrained
// values must match, and defaults are filled in for absent optional
// parameters. It returns a new map and never mutates its input.
func ValidateArgs(params []ParamSpec, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}

	for _, p := range params {
		v, present := out[p.Name]
		if !present {
			if p.Required {
				return nil, &errors.ValidationError{
					Field:   p.Name,
					Message: "required parameter missing",
					Fix:     fmt.Sprintf("supply --%s", p.Name),
				}
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}

		if len(p.Enum) > 0 {
			s, ok := v.(string)
			if !ok || !containsString(p.Enum, s) {
				return nil, &errors.ValidationError{
					Field:   p.Name,
					Message: fmt.Sprintf("value %v not allowed", v),
					Fix:     fmt.Sprintf("use one of: %v", p.Enum),
				}
			}
		}
	}

	return out, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
