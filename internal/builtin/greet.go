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
	"fmt"

	"github.com/spoolkit/spool/pkg/command"
)

// greetV1 is the deprecated lineage member; it keeps working until the
// host reaches the removal version, attaching warnings meanwhile.
func greetV1() *command.Command {
	return &command.Command{
		BaseName: "greet",
		Version:  mustVersion("1.0.0"),
		Summary:  "Print a greeting",
		Params: []command.ParamSpec{
			{Name: "name", Type: command.TypeString, Required: true, Help: "who to greet"},
		},
		Deprecated:        true,
		DeprecatedMessage: "Use greet-v2.0.0; the salutation parameter replaces the fixed prefix.",
		DeprecatedVersion: mustVersion("2.0.0"),
		Tags:              []string{"demo"},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{
				"greeting": fmt.Sprintf("Hello, %s!", args["name"]),
			}, nil
		},
	}
}

func greetV2() *command.Command {
	return &command.Command{
		BaseName: "greet",
		Version:  mustVersion("2.0.0"),
		Summary:  "Print a greeting with a configurable salutation",
		Params: []command.ParamSpec{
			{Name: "name", Type: command.TypeString, Required: true, Help: "who to greet"},
			{Name: "salutation", Type: command.TypeString, Default: "Hello", Help: "greeting prefix"},
		},
		Tags: []string{"demo"},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{
				"greeting": fmt.Sprintf("%s, %s!", args["salutation"], args["name"]),
			}, nil
		},
	}
}
