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

// Package server exposes the registry view as MCP tools over stdio.
// Every tool call runs through the invocation pipeline, so agents get
// the same deprecation gating, validation, security policy, and
// sanitization as the CLI.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/invoke"
	"github.com/spoolkit/spool/pkg/tool"
)

// Config configures the MCP server.
type Config struct {
	// App is the server name announced to clients.
	App string

	// Version is the host application version.
	Version string

	// Registry is the command registry backing the served view.
	Registry *command.Registry

	// Manifest optionally provides manifest-defined tools; when set,
	// its directory is watched and tools are re-registered on change.
	Manifest *tool.ManifestProvider

	// Pipeline runs every tool call. The server swaps in a declining
	// confirmer: stdio has no interactive channel, so destructive
	// calls must carry confirm=true.
	Pipeline *invoke.Pipeline

	Logger *slog.Logger
}

// Server wraps the MCP stdio server around the registry view.
type Server struct {
	mcp      *mcpserver.MCPServer
	registry *command.Registry
	manifest *tool.ManifestProvider
	pipeline invoke.Pipeline
	limiter  *rateGuard
	logger   *slog.Logger

	mu         sync.Mutex
	registered []string
}

// NewServer builds the server and registers the current view.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("mcp server: registry is required")
	}
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("mcp server: pipeline is required")
	}
	if cfg.App == "" {
		cfg.App = "spool"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	pipeline := *cfg.Pipeline
	pipeline.Confirm = declineConfirmer{}

	s := &Server{
		mcp:      mcpserver.NewMCPServer(cfg.App, cfg.Version),
		registry: cfg.Registry,
		manifest: cfg.Manifest,
		pipeline: pipeline,
		limiter:  newRateGuard(),
		logger:   cfg.Logger,
	}

	if err := s.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh rebuilds the served tool set from the registry view. Safe to
// call while serving; mcp-go notifies connected clients of the change.
func (s *Server) Refresh(ctx context.Context) error {
	view, err := tool.BuildView(ctx,
		[]tool.Provider{&tool.RegistryProvider{Registry: s.registry}},
		tool.VisibilityTransform{},
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.registered) > 0 {
		s.mcp.DeleteTools(s.registered...)
	}
	s.registered = s.registered[:0]

	for _, def := range view {
		if def.Source == nil {
			continue
		}
		s.mcp.AddTool(ToolFromDef(def), s.handler(def))
		s.registered = append(s.registered, def.Name)
	}

	s.logger.Debug("mcp tools registered", slog.Int("count", len(s.registered)))
	return nil
}

// Run serves over stdio until stdin closes. When a manifest provider
// is configured, its directory is watched and changes re-register the
// tool set.
func (s *Server) Run(ctx context.Context) error {
	if s.manifest != nil && s.manifest.Dir != "" {
		stop, err := s.watchManifests(ctx)
		if err != nil {
			s.logger.Warn("manifest watch unavailable", slog.String("error", err.Error()))
		} else {
			defer stop()
		}
	}

	s.logger.Info("mcp server starting")
	if err := mcpserver.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// declineConfirmer rejects every interactive confirmation. Destructive
// tools served over MCP must be pre-approved with confirm=true.
type declineConfirmer struct{}

func (declineConfirmer) Confirm(string, bool) (bool, error) {
	return false, nil
}
