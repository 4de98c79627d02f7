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

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/tool"
)

func testDeps() Deps {
	view := tool.View{
		{
			Name:        "greet",
			Description: "Say hello",
			Version:     "2.0.0",
			Params: []command.ParamSpec{
				{Name: "name", Type: command.TypeString, Required: true, Help: "who to greet"},
				{Name: "salutation", Type: command.TypeString, Default: "Hello"},
			},
		},
		{
			Name:        "greet-v1.0.0",
			Description: "Say hello",
			Version:     "1.0.0",
			Pinned:      true,
			Deprecated:  &tool.Deprecation{Message: "use greet-v2.0.0", Version: "2.0.0"},
		},
		{
			Name:        "purge",
			Description: "Empty a directory",
			Destructive: true,
		},
		{
			Name:        "probe",
			Description: "internal helper",
			Hidden:      true,
		},
	}

	// Mirror the production wiring: visibility is applied by the
	// transform pipeline before any surface sees the view.
	return Deps{
		View: func(ctx context.Context) (tool.View, error) {
			return tool.VisibilityTransform{}.Apply(view), nil
		},
		Version: "3.1.0",
	}
}

func runSubcommand(t *testing.T, deps Deps, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewCommand(deps)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestListExcludesHidden(t *testing.T) {
	out := runSubcommand(t, testDeps(), "list")

	assert.Contains(t, out, "greet")
	assert.Contains(t, out, "purge")
	assert.NotContains(t, out, "probe")
}

func TestListShowsDeprecationNotice(t *testing.T) {
	out := runSubcommand(t, testDeps(), "list")

	assert.Contains(t, out, "use greet-v2.0.0")
	assert.Contains(t, out, "3.1.0")
}

func TestListAgentForm(t *testing.T) {
	out := runSubcommand(t, testDeps(), "list", "--agent")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	fields := strings.Split(lines[0], "\t")
	require.Len(t, fields, 4)
	assert.Equal(t, "greet", fields[0])
	assert.Equal(t, "Say hello", fields[1])
	assert.Equal(t, "name:string*,salutation:string", fields[2])
	assert.Equal(t, "-", fields[3])

	purge := strings.Split(lines[2], "\t")
	assert.Equal(t, "destructive", purge[3])
}

func TestSchemaExport(t *testing.T) {
	out := runSubcommand(t, testDeps(), "schema")

	var defs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	require.Len(t, defs, 3)

	assert.Equal(t, "greet", defs[0]["name"])
	assert.Equal(t, "2.0.0", defs[0]["version"])

	dep, ok := defs[1]["deprecated"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2.0.0", dep["version"])
}

func TestManifestExport(t *testing.T) {
	out := runSubcommand(t, testDeps(), "manifest")

	var tools []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	require.Len(t, tools, 3)

	names := make([]string, 0, len(tools))
	for _, tl := range tools {
		names = append(names, tl["name"].(string))
	}
	assert.Contains(t, names, "greet")
	assert.NotContains(t, names, "probe")
}

// All three surfaces consume the transformed view as-is; the hidden
// probe never reaches any of them.
func TestSurfacesShareVisibleView(t *testing.T) {
	deps := testDeps()
	view, err := deps.View(context.Background())
	require.NoError(t, err)
	require.Len(t, view, 3)

	for _, surface := range []string{"list", "schema", "manifest"} {
		out := runSubcommand(t, deps, surface)
		assert.NotContains(t, out, "probe", "surface %s leaked a hidden tool", surface)
	}
}
