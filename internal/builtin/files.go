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
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/errors"
)

func checksumCmd() *command.Command {
	return &command.Command{
		BaseName: "checksum",
		Summary:  "Compute the SHA-256 digest of a file",
		Params: []command.ParamSpec{
			{Name: "path", Type: command.TypeString, Required: true, Help: "file to hash"},
		},
		Tags: []string{"files"},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			path := args["path"].(string)
			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, &errors.NotFoundError{Resource: "file", ID: path}
				}
				return nil, err
			}
			defer f.Close()

			h := sha256.New()
			size, err := io.Copy(h, f)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"path":   path,
				"sha256": hex.EncodeToString(h.Sum(nil)),
				"bytes":  size,
			}, nil
		},
	}
}

func linesCmd() *command.Command {
	return &command.Command{
		BaseName: "lines",
		Summary:  "Count lines in a file, optionally returning the first N",
		Params: []command.ParamSpec{
			{Name: "path", Type: command.TypeString, Required: true, Help: "file to read"},
			{Name: "head", Type: command.TypeInt, Default: 0, Help: "return the first N lines"},
		},
		Tags: []string{"files"},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			path := args["path"].(string)
			head := intArg(args["head"])

			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, &errors.NotFoundError{Resource: "file", ID: path}
				}
				return nil, err
			}
			defer f.Close()

			var first []string
			count := 0
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				if head > 0 && count < head {
					first = append(first, scanner.Text())
				}
				count++
			}
			if err := scanner.Err(); err != nil {
				return nil, err
			}

			out := map[string]any{
				"path":  path,
				"count": count,
			}
			if head > 0 {
				out["head"] = first
			}
			return out, nil
		},
	}
}

// purgeCmd removes every file directly under a directory. It is the
// destructive reference command exercising the security gate.
func purgeCmd() *command.Command {
	return &command.Command{
		BaseName:    "purge",
		Summary:     "Remove all files directly under a directory",
		Destructive: true,
		Params: []command.ParamSpec{
			{Name: "dir", Type: command.TypeString, Required: true, Help: "directory to empty"},
		},
		Tags: []string{"files"},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			dir := args["dir"].(string)
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, &errors.NotFoundError{Resource: "directory", ID: dir}
				}
				return nil, err
			}

			removed := 0
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
					return nil, fmt.Errorf("remove %s: %w", entry.Name(), err)
				}
				removed++
			}
			return map[string]any{
				"dir":     dir,
				"removed": removed,
			}, nil
		},
	}
}

// intArg normalizes validated int parameters; JSON decoding hands
// numbers over as float64.
func intArg(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
