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

package builtin

import (
	"context"
	"os"
	"runtime"

	"github.com/spoolkit/spool/pkg/command"
)

// envCmd is a hidden diagnostic: absent from default views but still
// invocable by exact token.
func envCmd() *command.Command {
	return &command.Command{
		BaseName: "env",
		Summary:  "Show selected environment values for diagnostics",
		Hidden:   true,
		Params: []command.ParamSpec{
			{Name: "names", Type: command.TypeStringSlice, Help: "environment variables to include"},
		},
		Tags: []string{"diagnostics"},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			values := map[string]string{}
			for _, name := range stringsArg(args["names"]) {
				values[name] = os.Getenv(name)
			}
			return map[string]any{
				"os":   runtime.GOOS,
				"arch": runtime.GOARCH,
				"env":  values,
			}, nil
		},
	}
}

func stringsArg(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
