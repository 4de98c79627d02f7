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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoolkit/spool/pkg/errors"
	"github.com/spoolkit/spool/pkg/invoke"
)

func successEnv() *invoke.Envelope {
	return &invoke.Envelope{
		OK:     true,
		Result: map[string]any{"greeting": "Hello, Ada", "bytes": 42},
		Meta:   &invoke.Meta{Tool: "spool.greet", Version: "3.0.0"},
	}
}

func TestRenderTextFlatResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderEnvelope(&buf, successEnv(), &Globals{}))

	out := buf.String()
	assert.Contains(t, out, "greeting")
	assert.Contains(t, out, "Hello, Ada")
	assert.Contains(t, out, "42")
}

func TestRenderTextWarnings(t *testing.T) {
	env := successEnv()
	env.Meta.Warnings = []string{"command greet is deprecated"}

	var buf bytes.Buffer
	require.NoError(t, renderEnvelope(&buf, env, &Globals{}))
	assert.Contains(t, buf.String(), "command greet is deprecated")

	buf.Reset()
	require.NoError(t, renderEnvelope(&buf, env, &Globals{Quiet: true}))
	assert.NotContains(t, buf.String(), "deprecated")
}

func TestRenderTextFailureWithHint(t *testing.T) {
	env := &invoke.Envelope{
		OK: false,
		Error: &invoke.ErrorObject{
			Code:     "E1003",
			Message:  "required parameter missing",
			Category: string(errors.CategoryValidation),
			Suggestion: &errors.Suggestion{
				Fix: "supply --name",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, renderEnvelope(&buf, env, &Globals{}))

	out := buf.String()
	assert.Contains(t, out, "required parameter missing")
	assert.Contains(t, out, "E1003")
	assert.Contains(t, out, "supply --name")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderEnvelope(&buf, successEnv(), &Globals{Output: "json"}))

	var env map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, true, env["ok"])

	meta := env["meta"].(map[string]any)
	assert.Equal(t, "spool.greet", meta["tool"])
}

func TestRenderQuery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderEnvelope(&buf, successEnv(), &Globals{Query: ".result.greeting"}))

	var got string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Hello, Ada", got)
}

func TestRenderQueryInvalidExpression(t *testing.T) {
	var buf bytes.Buffer
	err := renderEnvelope(&buf, successEnv(), &Globals{Query: ".[unterminated"})
	assert.Error(t, err)
}

func TestRenderNestedResultFallsBackToJSON(t *testing.T) {
	env := &invoke.Envelope{
		OK:     true,
		Result: map[string]any{"outer": map[string]any{"inner": 1}},
		Meta:   &invoke.Meta{Tool: "spool.env", Version: "3.0.0"},
	}

	var buf bytes.Buffer
	require.NoError(t, renderEnvelope(&buf, env, &Globals{}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Contains(t, got, "outer")
}
