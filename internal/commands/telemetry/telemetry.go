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

// Package telemetry provides the `spool telemetry` maintenance
// commands for the local invocation log.
package telemetry

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/commands/shared"
	"github.com/spoolkit/spool/pkg/telemetry"
)

// NewCommand creates the telemetry command group. recorder is nil when
// telemetry is disabled; the subcommands then report that and exit
// cleanly.
func NewCommand(recorder *telemetry.Recorder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telemetry",
		Short: "Inspect and maintain the local invocation log",
	}

	cmd.AddCommand(
		newShowCmd(recorder),
		newPruneCmd(recorder),
	)
	return cmd
}

func newShowCmd(recorder *telemetry.Recorder) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recorded invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if recorder == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "telemetry is disabled")
				return nil
			}

			records, err := recorder.Read()
			if err != nil {
				return fmt.Errorf("read telemetry log: %w", err)
			}

			if asJSON {
				return shared.EmitJSONTo(cmd.OutOrStdout(), records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no invocations recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tCOMMAND\tSTATUS\tDURATION\tERROR")
			for _, rec := range records {
				status := shared.RenderOK("ok")
				errCode := "-"
				if !rec.Success {
					status = shared.RenderError("failed")
					errCode = rec.ErrorCode
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%dms\t%s\n",
					rec.RecordedAt.Local().Format(time.RFC3339),
					rec.Command, status, rec.DurationMS, errCode)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit records as JSON")
	return cmd
}

func newPruneCmd(recorder *telemetry.Recorder) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop records older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if recorder == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "telemetry is disabled")
				return nil
			}

			dropped, err := recorder.Prune()
			if err != nil {
				return fmt.Errorf("prune telemetry log: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderOK(fmt.Sprintf("dropped %d record(s)", dropped)))
			return nil
		},
	}
}
