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
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spoolkit/spool/internal/commands/shared"
	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/invoke"
	"github.com/spoolkit/spool/pkg/tool"
)

// generateCommands builds one cobra command per view entry. Hidden
// tools stay invocable by exact token but are hidden from help.
func generateCommands(ctx context.Context, app *App, globals *Globals) ([]*cobra.Command, error) {
	view, err := app.View(ctx)
	if err != nil {
		return nil, err
	}

	cmds := make([]*cobra.Command, 0, len(view))
	for _, def := range view {
		if def.Source == nil {
			continue
		}
		cmds = append(cmds, newToolCommand(app, globals, def))
	}
	return cmds, nil
}

func newToolCommand(app *App, globals *Globals, def tool.ToolDef) *cobra.Command {
	short := def.Description
	if def.Pinned {
		short = fmt.Sprintf("%s (pinned v%s)", def.Description, def.Version)
	}

	cmd := &cobra.Command{
		Use:    def.Name,
		Short:  short,
		Hidden: def.Hidden || def.Pinned,
		RunE: func(c *cobra.Command, _ []string) error {
			return runTool(c, app, globals, def)
		},
	}

	for _, p := range def.Params {
		bindParamFlag(cmd.Flags(), p)
	}
	return cmd
}

// bindParamFlag declares a flag matching the parameter schema. Values
// are read back only when the user set them, so registry defaults and
// required-parameter validation stay in the pipeline.
func bindParamFlag(flags *pflag.FlagSet, p command.ParamSpec) {
	switch p.Type {
	case command.TypeInt:
		flags.Int(p.Name, 0, p.Help)
	case command.TypeFloat:
		flags.Float64(p.Name, 0, p.Help)
	case command.TypeBool:
		flags.Bool(p.Name, false, p.Help)
	case command.TypeStringSlice:
		flags.StringSlice(p.Name, nil, p.Help)
	default:
		flags.String(p.Name, "", p.Help)
	}
}

func runTool(c *cobra.Command, app *App, globals *Globals, def tool.ToolDef) error {
	args, err := collectArgs(c, def.Params)
	if err != nil {
		return shared.NewUserError("invalid arguments", err)
	}

	// Interactive fill-in for missing required parameters; in a
	// non-interactive context the pipeline's validation rejects them.
	if !globals.Quiet && !shared.IsNonInteractive() {
		if err := promptMissing(def.Params, args); err != nil {
			return shared.NewUserError("prompt failed", err)
		}
	}

	tctx := invoke.ToolContext{
		Quiet:          globals.Quiet,
		Verbose:        globals.Verbose,
		DryRun:         globals.DryRun,
		Force:          globals.Force,
		Yes:            globals.Yes,
		Timeout:        globals.Timeout,
		IdempotencyKey: globals.IdempotencyKey,
		ResponseFormat: globals.Output,
	}
	if tctx.IdempotencyKey == "" {
		tctx.IdempotencyKey = uuid.NewString()
	}

	env := app.Pipeline.Invoke(c.Context(), def.Name, def.Source, args, tctx)

	if err := renderEnvelope(c.OutOrStdout(), env, globals); err != nil {
		return shared.NewInternalError("render output", err)
	}
	if code := env.ExitCode(); code != invoke.ExitSuccess {
		return &shared.ExitError{Code: code}
	}
	return nil
}

// collectArgs reads back only the flags the user explicitly set.
func collectArgs(c *cobra.Command, params []command.ParamSpec) (map[string]any, error) {
	args := make(map[string]any, len(params))
	flags := c.Flags()

	for _, p := range params {
		if !flags.Changed(p.Name) {
			continue
		}
		var (
			v   any
			err error
		)
		switch p.Type {
		case command.TypeInt:
			v, err = flags.GetInt(p.Name)
		case command.TypeFloat:
			v, err = flags.GetFloat64(p.Name)
		case command.TypeBool:
			v, err = flags.GetBool(p.Name)
		case command.TypeStringSlice:
			v, err = flags.GetStringSlice(p.Name)
		default:
			v, err = flags.GetString(p.Name)
		}
		if err != nil {
			return nil, err
		}
		args[p.Name] = v
	}
	return args, nil
}
