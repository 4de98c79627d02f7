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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/commands/shared"
	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/tool"
)

func newListCmd(deps Deps) *cobra.Command {
	var agent bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available commands",
		Long: `List the available commands with their versions, parameters, and
deprecation status.

--agent emits a compact machine-readable text form, one command per
line, intended for AI agents that consume help output directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deps.View(cmd.Context())
			if err != nil {
				return err
			}
			if agent {
				return renderAgentList(cmd.OutOrStdout(), view)
			}
			return renderList(cmd.OutOrStdout(), view, deps.Version)
		},
	}

	cmd.Flags().BoolVar(&agent, "agent", false, "Emit the compact machine text form")
	return cmd
}

func renderList(w io.Writer, view tool.View, version string) error {
	fmt.Fprintln(w, shared.Header.Render(fmt.Sprintf("Commands (host %s)", version)))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, def := range view {
		name := def.Name
		var marks []string
		if def.Version != "" && !def.Pinned {
			marks = append(marks, shared.Muted.Render("v"+def.Version))
		}
		if def.Destructive {
			marks = append(marks, shared.StatusError.Render("destructive"))
		}
		if def.Deprecated != nil {
			marks = append(marks, shared.StatusWarn.Render("deprecated"))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", shared.Bold.Render(name), def.Description, strings.Join(marks, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, def := range view {
		if def.Deprecated != nil && def.Deprecated.Message != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, shared.RenderWarn(fmt.Sprintf("%s: %s", def.Name, def.Deprecated.Message)))
		}
	}
	return nil
}

// renderAgentList writes one line per command:
//
//	name <tab> description <tab> param[:type][*] ... <tab> flags
func renderAgentList(w io.Writer, view tool.View) error {
	for _, def := range view {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			def.Name, def.Description, agentParams(def.Params), agentFlags(def))
	}
	return nil
}

func agentParams(params []command.ParamSpec) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		part := p.Name + ":" + string(p.Type)
		if p.Required {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ",")
}

func agentFlags(def tool.ToolDef) string {
	var flags []string
	if def.Destructive {
		flags = append(flags, "destructive")
	}
	if def.Deprecated != nil {
		flags = append(flags, "deprecated")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
