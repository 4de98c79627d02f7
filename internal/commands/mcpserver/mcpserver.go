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

// Package mcpserver provides the `spool mcp-server` command.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spoolkit/spool/internal/mcp/server"
	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/invoke"
	"github.com/spoolkit/spool/pkg/tool"
)

// Deps carries the already-assembled application pieces the server
// needs.
type Deps struct {
	App      string
	Version  string
	Registry *command.Registry
	Manifest *tool.ManifestProvider
	Pipeline *invoke.Pipeline
	Logger   *slog.Logger
}

// NewCommand creates the mcp-server command.
func NewCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve the command registry over MCP stdio",
		Long: `Serve the command registry to AI assistants over the Model Context
Protocol (stdio transport).

Every registered command is exposed as an MCP tool, and each call runs
through the same invocation pipeline as the CLI: deprecation checks,
argument validation, the security gate, output sanitization, and the
structured result envelope. Destructive commands require the synthetic
confirm=true argument since stdio has no interactive prompt.

When a manifest directory is configured, it is watched for changes and
newly added tools become available without a restart.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "spool": {
        "command": "spool",
        "args": ["mcp-server"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(deps)
		},
	}
}

func run(deps Deps) error {
	srv, err := server.NewServer(server.Config{
		App:      deps.App,
		Version:  deps.Version,
		Registry: deps.Registry,
		Manifest: deps.Manifest,
		Pipeline: deps.Pipeline,
		Logger:   deps.Logger,
	})
	if err != nil {
		return fmt.Errorf("create mcp server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down")
		cancel()
	}()

	return srv.Run(ctx)
}
