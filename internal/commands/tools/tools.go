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

// Package tools provides the `spool tools` export surfaces: list,
// schema, and manifest. All three render the same view; none
// re-derives visibility decisions.
package tools

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/pkg/tool"
)

// Deps supplies the view builder and host version.
type Deps struct {
	// View builds the export view. Visibility is already applied by
	// the transform pipeline; hidden tools never reach a surface here.
	View func(ctx context.Context) (tool.View, error)

	// Version is the host application version.
	Version string
}

// NewCommand creates the tools command group.
func NewCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and export the command registry",
	}

	cmd.AddCommand(
		newListCmd(deps),
		newSchemaCmd(deps),
		newManifestCmd(deps),
	)
	return cmd
}
