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

package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/errors"
	"github.com/spoolkit/spool/pkg/telemetry"
)

// RecordSink receives one telemetry record per completed invocation.
// *telemetry.Recorder satisfies it; a nil sink disables recording.
type RecordSink interface {
	Record(rec telemetry.Record)
}

// Pipeline runs every invocation through the same stage sequence:
// deprecation check, argument validation, security gate, measured
// execution, sanitization, envelope construction, telemetry.
//
// A Pipeline is safe for concurrent use once configured.
type Pipeline struct {
	// App is the host application name used to qualify telemetry and
	// envelope metadata.
	App string

	// Version is the host application version the deprecation state
	// machine evaluates against.
	Version *semver.Version

	// Policy controls the destructive-command gate.
	Policy Policy

	// Bypass suppresses interactive confirmation under the standard
	// policy (SPOOL_NO_CONFIRM). It never bypasses strict.
	Bypass bool

	// Confirm prompts for destructive commands. Nil falls back to
	// NewConsoleConfirmer.
	Confirm Confirmer

	// Sanitizer scrubs results and error messages. Nil gets a default.
	Sanitizer *Sanitizer

	// Recorder receives telemetry; nil disables it.
	Recorder RecordSink

	// Logger receives pipeline debug lines. Nil means slog.Default().
	Logger *slog.Logger

	// Tracer, when set, opens a span around each invocation.
	Tracer trace.Tracer
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) sanitizer() *Sanitizer {
	if p.Sanitizer != nil {
		return p.Sanitizer
	}
	return NewSanitizer()
}

func (p *Pipeline) confirmer() Confirmer {
	if p.Confirm != nil {
		return p.Confirm
	}
	return NewConsoleConfirmer()
}

// Invoke runs cmd (resolved under token) through the full stage
// sequence and returns the envelope. It never returns a bare error:
// every failure mode becomes an error envelope, and the caller derives
// the process exit code from Envelope.ExitCode.
func (p *Pipeline) Invoke(ctx context.Context, token string, cmd *command.Command, args map[string]any, tctx ToolContext) *Envelope {
	start := time.Now()

	if p.Tracer != nil {
		var span trace.Span
		ctx, span = p.Tracer.Start(ctx, "invoke",
			trace.WithAttributes(
				attribute.String("command.token", token),
				attribute.String("command.base", cmd.BaseName),
			))
		defer span.End()
		defer func() {
			span.SetAttributes(attribute.Int64("duration_ms", time.Since(start).Milliseconds()))
		}()
	}

	env, duration := p.run(ctx, token, cmd, args, tctx)

	if p.Tracer != nil {
		span := trace.SpanFromContext(ctx)
		if env.OK {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, env.Error.Code)
		}
	}

	p.record(token, env, duration)
	return env
}

// run executes the stages and reports the measured handler duration.
// Failures before execution report zero duration.
func (p *Pipeline) run(ctx context.Context, token string, cmd *command.Command, args map[string]any, tctx ToolContext) (*Envelope, time.Duration) {
	s := p.sanitizer()

	// Stage 1: deprecation. Removed commands are refused before any
	// argument handling so no callback side effects can occur.
	lifecycle := cmd.LifecycleAt(p.Version)
	if lifecycle == command.LifecycleRemoved {
		err := &errors.RemovedError{
			Command:           token,
			DeprecatedVersion: cmd.DeprecatedVersion.String(),
			Message:           cmd.DeprecatedMessage,
		}
		return failureEnvelope(err, s), 0
	}
	var warnings []string
	if lifecycle == command.LifecycleDeprecated {
		warnings = cmd.DeprecationWarnings()
		p.logger().Warn("invoking deprecated command",
			"command", token,
			"removal_version", cmd.DeprecatedVersion)
	}

	// Stage 2: argument validation against the declared schema.
	resolved, err := command.ValidateArgs(cmd.Params, args)
	if err != nil {
		return failureEnvelope(err, s), 0
	}

	// Stage 3: security gate.
	if err := p.gate(token, cmd, tctx); err != nil {
		return failureEnvelope(err, s), 0
	}

	// Dry run stops after validation and gating: the callback never
	// runs, so no side effects occur.
	if tctx.DryRun {
		meta := &Meta{
			Tool:     fmt.Sprintf("%s.%s", p.App, token),
			Version:  p.versionString(),
			Warnings: warnings,
		}
		return successEnvelope(map[string]any{"dry_run": true, "command": token}, meta), 0
	}

	// Stage 4: measured execution with panic recovery. A panicking
	// callback must not take the host process down with it.
	if tctx.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tctx.Timeout)
		defer cancel()
	}
	ctx = WithToolContext(ctx, tctx)

	execStart := time.Now()
	result, err := p.execute(ctx, token, cmd, resolved)
	duration := time.Since(execStart)

	if err != nil {
		return failureEnvelope(err, s), duration
	}

	// Stage 5: sanitization. Results are scrubbed in full before they
	// reach any output surface.
	clean := s.Value(result)

	meta := &Meta{
		Tool:     fmt.Sprintf("%s.%s", p.App, token),
		Version:  p.versionString(),
		Warnings: warnings,
	}
	return successEnvelope(clean, meta), duration
}

// gate enforces the destructive-command policy. Non-destructive
// commands pass through untouched.
func (p *Pipeline) gate(token string, cmd *command.Command, tctx ToolContext) error {
	if !cmd.Destructive || p.Policy == PolicyOff {
		return nil
	}

	switch p.Policy {
	case PolicyStrict:
		// Strict ignores --yes and the bypass variable; only an
		// explicit --force pre-approves.
		if tctx.Force {
			return nil
		}
	default: // standard
		if tctx.Force || tctx.Yes || p.Bypass {
			return nil
		}
	}

	ok, err := p.confirmer().Confirm(ConfirmPrompt(token), false)
	if err != nil {
		return err
	}
	if !ok {
		return &errors.SecurityDeniedError{
			Command: token,
			Policy:  string(p.Policy),
			Reason:  "confirmation declined",
		}
	}
	return nil
}

// execute runs the callback, converting panics and unclassified errors
// into internal errors so they map to exit code 70.
func (p *Pipeline) execute(ctx context.Context, token string, cmd *command.Command, args map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger().Error("command panicked", "command", token, "panic", r)
			err = &errors.InternalError{
				Op:    token,
				Cause: fmt.Errorf("panic: %v", r),
			}
		}
	}()

	result, err = cmd.Run(ctx, args)
	if err != nil {
		var coded errors.Coded
		if !errors.As(err, &coded) {
			err = &errors.InternalError{Op: token, Cause: err}
		}
		return nil, err
	}
	return result, nil
}

// record emits one telemetry record per invocation. Argument and
// result payloads are never included.
func (p *Pipeline) record(token string, env *Envelope, duration time.Duration) {
	if p.Recorder == nil {
		return
	}
	rec := telemetry.NewRecord(p.App, fmt.Sprintf("%s.%s", p.App, token))
	rec.Success = env.OK
	rec.DurationMS = duration.Milliseconds()
	rec.ExitCode = env.ExitCode()
	if env.Error != nil {
		rec.ErrorCode = env.Error.Code
		rec.ErrorCategory = env.Error.Category
	}
	p.Recorder.Record(rec)
}

func (p *Pipeline) versionString() string {
	if p.Version == nil {
		return ""
	}
	return p.Version.String()
}
