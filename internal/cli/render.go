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
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spoolkit/spool/internal/commands/shared"
	"github.com/spoolkit/spool/internal/jq"
	"github.com/spoolkit/spool/pkg/invoke"
)

// renderEnvelope writes an invocation envelope to w in the requested
// output format. --query applies a jq filter to the envelope and
// forces JSON output.
func renderEnvelope(w io.Writer, env *invoke.Envelope, globals *Globals) error {
	if globals.Query != "" {
		return renderQuery(w, env, globals.Query)
	}
	if globals.Output == "json" {
		data, err := env.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return renderText(w, env, globals)
}

func renderQuery(w io.Writer, env *invoke.Envelope, query string) error {
	// Round-trip through JSON so the filter sees the wire shape.
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	exec := jq.NewExecutor(jq.DefaultTimeout, jq.DefaultMaxInputSize)
	result, err := exec.Execute(context.Background(), query, data)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return shared.EmitJSONTo(w, result)
}

func renderText(w io.Writer, env *invoke.Envelope, globals *Globals) error {
	if env.Meta != nil && !globals.Quiet {
		for _, warning := range env.Meta.Warnings {
			fmt.Fprintln(w, shared.RenderWarn(warning))
		}
	}

	if !env.OK {
		return renderFailure(w, env.Error)
	}

	if err := renderResult(w, env.Result); err != nil {
		return err
	}
	if globals.Verbose && env.Meta != nil {
		fmt.Fprintln(w, shared.Muted.Render(fmt.Sprintf("tool: %s (host %s)", env.Meta.Tool, env.Meta.Version)))
	}
	return nil
}

func renderFailure(w io.Writer, obj *invoke.ErrorObject) error {
	if obj == nil {
		fmt.Fprintln(w, shared.RenderError("invocation failed"))
		return nil
	}
	fmt.Fprintln(w, shared.RenderError(fmt.Sprintf("%s (%s)", obj.Message, obj.Code)))
	if obj.Suggestion != nil && obj.Suggestion.Fix != "" {
		fmt.Fprintln(w, shared.Muted.Render("hint: "+obj.Suggestion.Fix))
	}
	return nil
}

// renderResult prints scalar results directly and small maps as sorted
// key/value lines; anything nested falls back to indented JSON.
func renderResult(w io.Writer, result any) error {
	switch v := result.(type) {
	case nil:
		fmt.Fprintln(w, shared.RenderOK("done"))
		return nil
	case string:
		fmt.Fprintln(w, v)
		return nil
	case map[string]any:
		if flat, ok := flatValues(v); ok {
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s: %v\n", shared.Bold.Render(k), flat[k])
			}
			return nil
		}
	}
	return shared.EmitJSONTo(w, result)
}

func flatValues(m map[string]any) (map[string]any, bool) {
	for _, v := range m {
		switch v.(type) {
		case map[string]any, []any, []string:
			return nil, false
		}
	}
	return m, true
}
