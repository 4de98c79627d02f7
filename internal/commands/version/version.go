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

// Package version provides the `spool version` command.
package version

import (
	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/commands/shared"
)

// Info contains the build metadata shown by the version command.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// NewCommand creates the version command.
func NewCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date for spool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, c, b := shared.GetVersion()
			info := Info{Version: v, Commit: c, BuildDate: b}

			if asJSON {
				return shared.EmitJSONTo(cmd.OutOrStdout(), info)
			}

			cmd.Printf("spool version %s\n", info.Version)
			cmd.Printf("  commit:     %s\n", info.Commit)
			cmd.Printf("  build date: %s\n", info.BuildDate)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit version info as JSON")
	return cmd
}
