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
	"context"

	"github.com/spoolkit/spool/pkg/errors"
)

// View is the materialized, ordered, name-deduplicated ToolDef sequence
// produced for one consumer. Views are rebuilt on every request so that
// hot-reloading providers and runtime transform changes are always
// reflected; nothing is cached across calls.
type View []ToolDef

// Find returns the def with the given exposed name, if present.
func (v View) Find(name string) (ToolDef, bool) {
	for _, d := range v {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDef{}, false
}

// Names returns the exposed names in view order.
func (v View) Names() []string {
	names := make([]string, len(v))
	for i, d := range v {
		names[i] = d.Name
	}
	return names
}

// BuildView concatenates the providers' outputs in caller order,
// deduplicates by exposed name (first occurrence wins; later providers never
// override earlier ones), then folds the transforms over the sequence in the
// order supplied.
func BuildView(ctx context.Context, providers []Provider, transforms ...Transform) (View, error) {
	var defs []ToolDef
	seen := make(map[string]bool)

	for _, p := range providers {
		list, err := p.Tools(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "building view")
		}
		for _, d := range list {
			if seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			defs = append(defs, d)
		}
	}

	for _, t := range transforms {
		defs = t.Apply(defs)
	}

	return View(defs), nil
}
