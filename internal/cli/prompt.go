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
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/spoolkit/spool/pkg/command"
)

// promptMissing asks for required parameters the user did not supply
// on the command line. args is mutated in place.
func promptMissing(params []command.ParamSpec, args map[string]any) error {
	for _, p := range params {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; ok {
			continue
		}
		v, err := promptParam(p)
		if err != nil {
			return err
		}
		args[p.Name] = v
	}
	return nil
}

func promptParam(p command.ParamSpec) (any, error) {
	message := p.Name
	if p.Help != "" {
		message = fmt.Sprintf("%s: %s", p.Name, p.Help)
	}

	if len(p.Enum) > 0 {
		var result string
		err := survey.AskOne(&survey.Select{Message: message, Options: p.Enum}, &result)
		return result, err
	}

	switch p.Type {
	case command.TypeBool:
		var result bool
		err := survey.AskOne(&survey.Confirm{Message: message}, &result)
		return result, err
	case command.TypeInt:
		var input string
		err := survey.AskOne(&survey.Input{Message: message}, &input, survey.WithValidator(func(ans interface{}) error {
			str, ok := ans.(string)
			if !ok {
				return nil
			}
			_, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
			return err
		}))
		if err != nil {
			return nil, err
		}
		return strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	case command.TypeFloat:
		var input string
		err := survey.AskOne(&survey.Input{Message: message}, &input, survey.WithValidator(func(ans interface{}) error {
			str, ok := ans.(string)
			if !ok {
				return nil
			}
			_, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
			return err
		}))
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(strings.TrimSpace(input), 64)
	case command.TypeStringSlice:
		var input string
		err := survey.AskOne(&survey.Input{Message: fmt.Sprintf("%s (comma-separated)", message)}, &input)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(input, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	default:
		var result string
		err := survey.AskOne(&survey.Input{Message: message}, &result)
		return result, err
	}
}
