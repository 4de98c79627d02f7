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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spoolkit/spool/internal/cli"
	"github.com/spoolkit/spool/internal/commands/shared"
)

// Version information (injected via ldflags at build time)
var (
	version   = "0.1.0"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	shared.SetVersion(version, commit, buildDate)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := cli.NewApp(ctx, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close(context.Background())

	rootCmd, err := cli.NewRootCommand(ctx, app)
	if err != nil {
		app.Close(context.Background())
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		app.Close(context.Background())
		shared.HandleExitError(err)
	}
}
