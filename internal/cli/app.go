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

// Package cli assembles the spool command tree: a cobra root whose
// subcommands are generated from the registry view, plus the fixed
// management commands.
package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/spoolkit/spool/internal/builtin"
	"github.com/spoolkit/spool/internal/config"
	"github.com/spoolkit/spool/internal/log"
	"github.com/spoolkit/spool/internal/tracing"
	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/httpclient"
	"github.com/spoolkit/spool/pkg/invoke"
	"github.com/spoolkit/spool/pkg/telemetry"
	"github.com/spoolkit/spool/pkg/tool"
)

// AppName is the host application name used for envelope metadata and
// telemetry qualification.
const AppName = "spool"

// App wires the registry, pipeline, and ambient services together.
// One App backs one process invocation.
type App struct {
	Name     string
	Version  *semver.Version
	Config   *config.Config
	Logger   *slog.Logger
	Registry *command.Registry
	Manifest *tool.ManifestProvider
	Pipeline *invoke.Pipeline
	Recorder *telemetry.Recorder
	Tracer   trace.Tracer

	shutdownTracing func(context.Context) error
}

// NewApp builds the application: settings, logger, registry with
// builtins and manifest commands, telemetry, tracing, pipeline.
func NewApp(ctx context.Context, version string) (*App, error) {
	hostVersion, err := semver.NewVersion(version)
	if err != nil {
		hostVersion = semver.MustParse("0.0.0")
	}

	logger := log.New(log.FromEnv())
	slog.SetDefault(logger)

	cfg, err := config.LoadSettings("")
	if err != nil {
		return nil, err
	}

	reg := command.NewRegistry()
	if err := builtin.RegisterAll(reg); err != nil {
		return nil, err
	}

	app := &App{
		Name:     AppName,
		Version:  hostVersion,
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
	}

	if dir, err := cfg.ManifestDir(); err == nil {
		app.Manifest = &tool.ManifestProvider{
			Dir:     dir,
			Pattern: cfg.Manifests.Pattern,
		}
		if err := app.Manifest.RegisterAll(ctx, reg); err != nil {
			logger.Warn("manifest registration failed", log.Error(err))
		}
	}

	if cfg.TelemetryEnabled() {
		if path, err := cfg.TelemetryPath(); err == nil {
			app.Recorder = telemetry.NewRecorder(telemetry.Options{
				Path:          path,
				RetentionDays: cfg.Telemetry.RetentionDays,
				Endpoint:      cfg.Telemetry.Endpoint,
				HTTPClient:    telemetryClient(),
				Logger:        logger,
			})
		}
	}

	tracer, shutdown, err := tracing.Setup(ctx, tracing.FromEnv(AppName, version))
	if err != nil {
		logger.Warn("tracing setup failed", log.Error(err))
	} else {
		app.Tracer = tracer
		app.shutdownTracing = shutdown
	}

	policy := invoke.ResolvePolicy(cfg.Security, os.Getenv)
	app.Pipeline = &invoke.Pipeline{
		App:       AppName,
		Version:   hostVersion,
		Policy:    policy,
		Bypass:    invoke.Truthy(os.Getenv(invoke.BypassEnvVar)),
		Confirm:   invoke.NewConsoleConfirmer(),
		Sanitizer: invoke.NewSanitizer(),
		Logger:    logger,
		Tracer:    app.Tracer,
	}
	if app.Recorder != nil {
		app.Pipeline.Recorder = app.Recorder
	}

	return app, nil
}

// View builds the default tool view: registry plus manifests, hidden
// entries included so exact tokens keep working (the CLI marks them
// hidden instead of dropping them).
func (a *App) View(ctx context.Context) (tool.View, error) {
	providers := []tool.Provider{&tool.RegistryProvider{Registry: a.Registry}}
	return tool.BuildView(ctx, providers, tool.VisibilityTransform{IncludeHidden: true})
}

// VisibleView is the export view shared by every schema, manifest, and
// list surface: the same providers with hidden entries dropped by the
// transform pipeline, so no surface re-derives visibility itself.
func (a *App) VisibleView(ctx context.Context) (tool.View, error) {
	providers := []tool.Provider{&tool.RegistryProvider{Registry: a.Registry}}
	return tool.BuildView(ctx, providers, tool.VisibilityTransform{})
}

// Close flushes telemetry and tracing.
func (a *App) Close(ctx context.Context) {
	if a.Recorder != nil {
		a.Recorder.Close()
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			a.Logger.Debug("tracing shutdown failed", log.Error(err))
		}
	}
}

// telemetryClient builds the HTTP client for remote delivery. Posts
// opt into the retry budget; the recorder attaches an Idempotency-Key
// per record so a replayed delivery cannot double-count.
func telemetryClient() *http.Client {
	cfg := httpclient.DefaultConfig()
	cfg.UserAgent = "spool-telemetry/1.0"
	cfg.RetryNonIdempotent = true
	client, err := httpclient.New(cfg)
	if err != nil {
		return nil
	}
	return client
}
