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

package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spoolkit/spool/pkg/invoke"
	"github.com/spoolkit/spool/pkg/tool"
)

// confirmParam is the synthetic boolean argument added to destructive
// tools. It maps to the pipeline's force pre-approval; without it the
// security gate declines.
const confirmParam = "confirm"

// ToolFromDef converts a view entry into an MCP tool declaration. The
// manifest export surface shares this conversion so the served and
// exported shapes never drift.
func ToolFromDef(def tool.ToolDef) mcp.Tool {
	desc := def.Description
	if def.Deprecated != nil {
		note := "DEPRECATED"
		if def.Deprecated.Message != "" {
			note = "DEPRECATED: " + def.Deprecated.Message
		}
		if desc != "" {
			desc = desc + " " + note
		} else {
			desc = note
		}
	}

	properties := make(map[string]interface{}, len(def.Params)+1)
	var required []string
	for _, p := range def.Params {
		prop := map[string]interface{}{
			"type": p.Type.JSONType(),
		}
		if p.Help != "" {
			prop["description"] = p.Help
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	if def.Destructive {
		properties[confirmParam] = map[string]interface{}{
			"type":        "boolean",
			"description": "Must be true to run this destructive command",
			"default":     false,
		}
	}

	return mcp.Tool{
		Name:        def.Name,
		Description: desc,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

// handler builds the tool-call handler for one view entry. Calls run
// through the invocation pipeline and the full envelope is returned as
// JSON text, errors included, so agents see the same structured shape
// as `--output json`.
func (s *Server) handler(def tool.ToolDef) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.limiter.allowCall() {
			return mcp.NewToolResultError("rate limit exceeded, try again later"), nil
		}

		args := make(map[string]any)
		for k, v := range request.GetArguments() {
			args[k] = v
		}

		tctx := invoke.ToolContext{ResponseFormat: "json"}
		if def.Destructive {
			tctx.Force = request.GetBool(confirmParam, false)
			delete(args, confirmParam)

			if !s.limiter.allowDestructive() {
				return mcp.NewToolResultError("rate limit exceeded for destructive commands"), nil
			}
		}

		env := s.pipeline.Invoke(ctx, def.Name, def.Source, args, tctx)

		data, err := env.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode envelope: %w", err)
		}
		if !env.OK {
			return mcp.NewToolResultError(string(data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
