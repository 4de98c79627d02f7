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
	"encoding/json"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/invoke"
	"github.com/spoolkit/spool/pkg/tool"
)

func newTestRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg := command.NewRegistry()

	err := reg.Register(&command.Command{
		BaseName: "greet",
		Version:  semver.MustParse("1.0.0"),
		Summary:  "Say hello",
		Params: []command.ParamSpec{
			{Name: "name", Type: command.TypeString, Required: true, Help: "who to greet"},
		},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{"greeting": "Hello, " + args["name"].(string)}, nil
		},
	})
	require.NoError(t, err)

	err = reg.Register(&command.Command{
		BaseName:    "purge",
		Summary:     "Delete things",
		Destructive: true,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{"purged": true}, nil
		},
	})
	require.NoError(t, err)

	return reg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		App:      "spool",
		Version:  "1.0.0",
		Registry: newTestRegistry(t),
		Pipeline: &invoke.Pipeline{
			App:       "spool",
			Version:   semver.MustParse("1.0.0"),
			Policy:    invoke.PolicyStandard,
			Sanitizer: invoke.NewSanitizer(),
		},
	})
	require.NoError(t, err)
	return srv
}

func TestToolFromDefSchema(t *testing.T) {
	def := tool.ToolDef{
		Name:        "lines",
		Description: "Count lines",
		Params: []command.ParamSpec{
			{Name: "path", Type: command.TypeString, Required: true, Help: "file to read"},
			{Name: "head", Type: command.TypeInt, Default: 0},
		},
	}

	mt := ToolFromDef(def)
	assert.Equal(t, "lines", mt.Name)
	assert.Equal(t, []string{"path"}, mt.InputSchema.Required)

	head, ok := mt.InputSchema.Properties["head"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "integer", head["type"])
}

func TestToolFromDefDestructiveConfirm(t *testing.T) {
	mt := ToolFromDef(tool.ToolDef{Name: "purge", Destructive: true})

	prop, ok := mt.InputSchema.Properties[confirmParam].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boolean", prop["type"])
	assert.NotContains(t, mt.InputSchema.Required, confirmParam)
}

func TestToolFromDefDeprecationNote(t *testing.T) {
	mt := ToolFromDef(tool.ToolDef{
		Name:        "greet",
		Description: "Say hello",
		Deprecated:  &tool.Deprecation{Message: "use greet-v2.0.0"},
	})
	assert.Contains(t, mt.Description, "DEPRECATED: use greet-v2.0.0")
}

func TestRefreshExcludesHidden(t *testing.T) {
	reg := newTestRegistry(t)
	err := reg.Register(&command.Command{
		BaseName: "internal-probe",
		Summary:  "hidden helper",
		Hidden:   true,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return nil, nil
		},
	})
	require.NoError(t, err)

	srv, err := NewServer(Config{
		Registry: reg,
		Pipeline: &invoke.Pipeline{App: "spool", Sanitizer: invoke.NewSanitizer()},
	})
	require.NoError(t, err)

	assert.NotContains(t, srv.registered, "internal-probe")
	assert.Contains(t, srv.registered, "greet")
	assert.Contains(t, srv.registered, "greet-v1.0.0")
}

func decodeEnvelope(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	return env
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestHandlerSuccess(t *testing.T) {
	srv := newTestServer(t)

	def := tool.ToolDef{
		Name:   "greet",
		Source: mustResolve(t, srv.registry, "greet"),
		Params: []command.ParamSpec{
			{Name: "name", Type: command.TypeString, Required: true},
		},
	}

	result, err := srv.handler(def)(context.Background(), callRequest("greet", map[string]any{"name": "Ada"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	env := decodeEnvelope(t, result)
	assert.Equal(t, true, env["ok"])
	res := env["result"].(map[string]any)
	assert.Equal(t, "Hello, Ada", res["greeting"])
}

func TestHandlerValidationFailure(t *testing.T) {
	srv := newTestServer(t)

	def := tool.ToolDef{
		Name:   "greet",
		Source: mustResolve(t, srv.registry, "greet"),
		Params: []command.ParamSpec{
			{Name: "name", Type: command.TypeString, Required: true},
		},
	}

	result, err := srv.handler(def)(context.Background(), callRequest("greet", nil))
	require.NoError(t, err)
	require.True(t, result.IsError)

	env := decodeEnvelope(t, result)
	assert.Equal(t, false, env["ok"])
	errObj := env["error"].(map[string]any)
	assert.Equal(t, "E1003", errObj["code"])
}

func TestHandlerDestructiveRequiresConfirm(t *testing.T) {
	srv := newTestServer(t)

	def := tool.ToolDef{
		Name:        "purge",
		Destructive: true,
		Source:      mustResolve(t, srv.registry, "purge"),
	}

	// Without confirm the gate declines.
	result, err := srv.handler(def)(context.Background(), callRequest("purge", nil))
	require.NoError(t, err)
	require.True(t, result.IsError)
	env := decodeEnvelope(t, result)
	errObj := env["error"].(map[string]any)
	assert.Equal(t, "E1005", errObj["code"])

	// confirm=true pre-approves and is not passed to the handler.
	result, err = srv.handler(def)(context.Background(), callRequest("purge", map[string]any{confirmParam: true}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	env = decodeEnvelope(t, result)
	assert.Equal(t, true, env["ok"])
}

func TestHandlerRateLimit(t *testing.T) {
	srv := newTestServer(t)
	def := tool.ToolDef{
		Name:   "greet",
		Source: mustResolve(t, srv.registry, "greet"),
	}

	h := srv.handler(def)
	var limited bool
	for i := 0; i < callsPerMinute+1; i++ {
		result, err := h(context.Background(), callRequest("greet", map[string]any{"name": "x"}))
		require.NoError(t, err)
		if result.IsError {
			text := result.Content[0].(mcp.TextContent).Text
			if assert.Contains(t, text, "rate limit") {
				limited = true
			}
			break
		}
	}
	assert.True(t, limited, "expected the call budget to run out")
}

func mustResolve(t *testing.T, reg *command.Registry, token string) *command.Command {
	t.Helper()
	cmd, err := reg.Resolve(token)
	require.NoError(t, err)
	return cmd
}
