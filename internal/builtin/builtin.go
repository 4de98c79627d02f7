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

// Package builtin registers the commands shipped with the spool binary.
package builtin

import (
	"github.com/Masterminds/semver/v3"

	"github.com/spoolkit/spool/pkg/command"
)

// RegisterAll adds every builtin command to the registry.
func RegisterAll(reg *command.Registry) error {
	cmds := []*command.Command{
		greetV1(),
		greetV2(),
		checksumCmd(),
		linesCmd(),
		envCmd(),
		purgeCmd(),
	}
	for _, c := range cmds {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func mustVersion(v string) *semver.Version {
	return semver.MustParse(v)
}
