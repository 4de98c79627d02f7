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

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/commands/mcpserver"
	telemetrycmd "github.com/spoolkit/spool/internal/commands/telemetry"
	toolscmd "github.com/spoolkit/spool/internal/commands/tools"
	versioncmd "github.com/spoolkit/spool/internal/commands/version"
)

// Globals holds the flag values shared by every generated command.
type Globals struct {
	Force          bool
	Yes            bool
	Quiet          bool
	Verbose        bool
	DryRun         bool
	Timeout        time.Duration
	IdempotencyKey string
	Output         string
	Query          string
}

// NewRootCommand creates the root cobra command with the management
// subcommands and one generated subcommand per registry entry.
func NewRootCommand(ctx context.Context, app *App) (*cobra.Command, error) {
	globals := &Globals{}

	cmd := &cobra.Command{
		Use:   "spool",
		Short: "Spool - versioned command registry and invocation pipeline",
		Long: `Spool hosts a versioned command registry and runs every invocation
through a uniform pipeline: deprecation checks, argument validation, a
security gate for destructive commands, output sanitization, and
structured result envelopes.

Commands are addressable by bare name (resolving to the latest version)
or by pinned token such as greet-v1.0.0. The same registry is exported
to AI agents over MCP with 'spool mcp-server'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&globals.Force, "force", false, "Pre-approve destructive commands")
	flags.BoolVarP(&globals.Yes, "yes", "y", false, "Assume yes for confirmations (standard policy only)")
	flags.BoolVarP(&globals.Quiet, "quiet", "q", false, "Suppress non-error output")
	flags.BoolVarP(&globals.Verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&globals.DryRun, "dry-run", false, "Validate and gate without executing")
	flags.DurationVar(&globals.Timeout, "timeout", 0, "Per-invocation timeout (0 = none)")
	flags.StringVar(&globals.IdempotencyKey, "idempotency-key", "", "Idempotency key passed to the command")
	flags.StringVarP(&globals.Output, "output", "o", "", "Output format: text or json")
	flags.StringVar(&globals.Query, "query", "", "jq expression applied to the JSON envelope")

	cmd.AddCommand(
		versioncmd.NewCommand(),
		toolscmd.NewCommand(toolsDeps(app)),
		telemetrycmd.NewCommand(app.Recorder),
		mcpserver.NewCommand(mcpDeps(app)),
	)

	generated, err := generateCommands(ctx, app, globals)
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(generated...)

	return cmd, nil
}

func toolsDeps(app *App) toolscmd.Deps {
	return toolscmd.Deps{
		View:    app.VisibleView,
		Version: app.Version.String(),
	}
}

func mcpDeps(app *App) mcpserver.Deps {
	return mcpserver.Deps{
		App:      app.Name,
		Version:  app.Version.String(),
		Registry: app.Registry,
		Manifest: app.Manifest,
		Pipeline: app.Pipeline,
		Logger:   app.Logger,
	}
}
