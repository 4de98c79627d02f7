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
	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/commands/shared"
)

func newSchemaCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Export the command schemas as JSON",
		Long: `Export every visible command as a JSON array: exposed name,
description, parameter schema, version, and deprecation metadata.
Pinned version tokens appear as their own entries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deps.View(cmd.Context())
			if err != nil {
				return err
			}
			return shared.EmitJSONTo(cmd.OutOrStdout(), view)
		},
	}
}
