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

package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/commands/shared"
	"github.com/spoolkit/spool/internal/mcp/server"
)

func newManifestCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Export an MCP tool manifest",
		Long: `Export the visible commands as an MCP tool manifest: the exact tool
declarations the mcp-server command serves, as a JSON array. Useful for
static registration with MCP clients that consume manifests instead of
listing tools live.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deps.View(cmd.Context())
			if err != nil {
				return err
			}

			tools := make([]mcp.Tool, 0, len(view))
			for _, def := range view {
				tools = append(tools, server.ToolFromDef(def))
			}
			return shared.EmitJSONTo(cmd.OutOrStdout(), tools)
		},
	}
}
