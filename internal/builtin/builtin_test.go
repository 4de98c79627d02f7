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
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/spoolkit/spool/pkg/command"
)

func newRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg := command.NewRegistry()
	if err := RegisterAll(reg); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	return reg
}

func TestGreetLineage(t *testing.T) {
	reg := newRegistry(t)

	// Bare token resolves to the newest version.
	latest, err := reg.Resolve("greet")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Version.String() != "2.0.0" {
		t.Errorf("latest greet = %s, want 2.0.0", latest.Version)
	}

	// Pinned token reaches the deprecated member.
	v1, err := reg.Resolve("greet-v1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if !v1.Deprecated {
		t.Error("greet-v1.0.0 not deprecated")
	}

	out, err := v1.Run(context.Background(), map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	if out["greeting"] != "Hello, Ada!" {
		t.Errorf("greeting = %q", out["greeting"])
	}

	out, err = latest.Run(context.Background(), map[string]any{"name": "Ada", "salutation": "Hi"})
	if err != nil {
		t.Fatal(err)
	}
	if out["greeting"] != "Hi, Ada!" {
		t.Errorf("greeting = %q", out["greeting"])
	}
}

func TestChecksum(t *testing.T) {
	reg := newRegistry(t)
	cmd, err := reg.Resolve("checksum")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "data.txt")
	content := []byte("spool test fixture\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := cmd.Run(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(content)
	if out["sha256"] != hex.EncodeToString(sum[:]) {
		t.Errorf("sha256 = %v", out["sha256"])
	}

	if _, err := cmd.Run(context.Background(), map[string]any{"path": filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLines(t *testing.T) {
	reg := newRegistry(t)
	cmd, err := reg.Resolve("lines")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := cmd.Run(context.Background(), map[string]any{"path": path, "head": 2})
	if err != nil {
		t.Fatal(err)
	}
	if out["count"] != 3 {
		t.Errorf("count = %v, want 3", out["count"])
	}
	head := out["head"].([]string)
	if len(head) != 2 || head[0] != "one" || head[1] != "two" {
		t.Errorf("head = %v", head)
	}
}

func TestPurge(t *testing.T) {
	reg := newRegistry(t)
	cmd, err := reg.Resolve("purge")
	if err != nil {
		t.Fatal(err)
	}
	if !cmd.Destructive {
		t.Fatal("purge not marked destructive")
	}

	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "keep"), 0o700); err != nil {
		t.Fatal(err)
	}

	out, err := cmd.Run(context.Background(), map[string]any{"dir": dir})
	if err != nil {
		t.Fatal(err)
	}
	if out["removed"] != 2 {
		t.Errorf("removed = %v, want 2", out["removed"])
	}
	// Subdirectories survive.
	if _, err := os.Stat(filepath.Join(dir, "keep")); err != nil {
		t.Errorf("subdirectory removed: %v", err)
	}
}

func TestEnvHidden(t *testing.T) {
	reg := newRegistry(t)
	cmd, err := reg.Resolve("env")
	if err != nil {
		t.Fatal(err)
	}
	if !cmd.Hidden {
		t.Error("env not hidden")
	}

	t.Setenv("SPOOL_TEST_VALUE", "42")
	out, err := cmd.Run(context.Background(), map[string]any{"names": []string{"SPOOL_TEST_VALUE"}})
	if err != nil {
		t.Fatal(err)
	}
	env := out["env"].(map[string]string)
	if env["SPOOL_TEST_VALUE"] != "42" {
		t.Errorf("env = %v", env)
	}
}
