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

package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/spoolkit/spool/pkg/command"
	"github.com/spoolkit/spool/pkg/errors"
)

const (
	// defaultManifestPattern matches tool manifests in a directory tree.
	defaultManifestPattern = "**/*.{yaml,yml}"

	// defaultExecTimeout bounds a manifest tool subprocess.
	defaultExecTimeout = 30 * time.Second

	// maxExecOutput caps captured subprocess output at 1MB.
	maxExecOutput = 1024 * 1024
)

// Manifest is the on-disk declaration of one tool. Manifests replace dynamic
// code loading: registering a tool is a configuration act, and the only
// execution mechanism is an explicit subprocess declared in the exec block.
type Manifest struct {
	Name        string               `yaml:"name"`
	Version     string               `yaml:"version,omitempty"`
	Summary     string               `yaml:"summary"`
	Description string               `yaml:"description,omitempty"`
	Hidden      bool                 `yaml:"hidden,omitempty"`
	Tags        []string             `yaml:"tags,omitempty"`
	Destructive bool                 `yaml:"destructive,omitempty"`
	Params      []command.ParamSpec  `yaml:"params,omitempty"`
	Deprecated  *ManifestDeprecation `yaml:"deprecated,omitempty"`
	Exec        ExecSpec             `yaml:"exec"`
}

// ManifestDeprecation mirrors the registry's deprecation fields.
type ManifestDeprecation struct {
	Message string `yaml:"message,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// ExecSpec declares the subprocess behind a manifest tool. Arguments are
// delivered as a JSON object on stdin; stdout is parsed as JSON when
// possible and otherwise wrapped as {"output": <text>}.
type ExecSpec struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args,omitempty"`
	WorkDir        string   `yaml:"workdir,omitempty"`
	TimeoutSeconds int      `yaml:"timeout,omitempty"`
}

// ManifestProvider loads tool manifests from a directory. Loading is
// reload-if-changed: each call compares per-file modification stamps against
// the previous load and reparses only when something changed. Single-threaded
// use is assumed; the stamp cache is keyed per source path.
type ManifestProvider struct {
	// Dir is the manifest directory root.
	Dir string

	// Pattern is a doublestar glob matched against paths relative to Dir.
	// Defaults to "**/*.{yaml,yml}".
	Pattern string

	mu     sync.Mutex
	stamps map[string]time.Time
	cached []ToolDef
}

// Tools implements Provider using the reload-if-changed policy.
func (p *ManifestProvider) Tools(ctx context.Context) ([]ToolDef, error) {
	defs, _, err := p.LoadIfChanged(ctx)
	return defs, err
}

// LoadIfChanged returns the tool list and whether it was freshly reparsed.
// When no manifest file's modification stamp changed since the previous
// call, the cached list is returned with changed=false.
func (p *ManifestProvider) LoadIfChanged(ctx context.Context) ([]ToolDef, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	paths, stamps, err := p.scan()
	if err != nil {
		return nil, false, err
	}

	if p.stamps != nil && stampsEqual(p.stamps, stamps) {
		out := make([]ToolDef, len(p.cached))
		copy(out, p.cached)
		return out, false, nil
	}

	defs := make([]ToolDef, 0, len(paths))
	for _, path := range paths {
		m, err := parseManifest(path)
		if err != nil {
			return nil, false, err
		}
		def, err := m.toolDef()
		if err != nil {
			return nil, false, errors.Wrapf(err, "manifest %s", path)
		}
		defs = append(defs, def)
	}

	p.stamps = stamps
	p.cached = defs

	out := make([]ToolDef, len(defs))
	copy(out, defs)
	return out, true, nil
}

// RegisterAll converts every manifest tool into a registry command. This is
// the manifest-driven registration call hosts use at startup.
func (p *ManifestProvider) RegisterAll(ctx context.Context, reg *command.Registry) error {
	defs, _, err := p.LoadIfChanged(ctx)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if def.Source == nil {
			continue
		}
		if err := reg.Register(def.Source); err != nil {
			return err
		}
	}
	return nil
}

// scan lists matching manifest paths (sorted for stable provider order) and
// their modification stamps.
func (p *ManifestProvider) scan() ([]string, map[string]time.Time, error) {
	pattern := p.Pattern
	if pattern == "" {
		pattern = defaultManifestPattern
	}

	fsys := os.DirFS(p.Dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "globbing %s", pattern)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	stamps := make(map[string]time.Time, len(matches))
	for _, rel := range matches {
		full := filepath.Join(p.Dir, filepath.FromSlash(rel))
		info, err := fs.Stat(fsys, rel)
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, full)
		stamps[full] = info.ModTime()
	}
	return paths, stamps, nil
}

func stampsEqual(a, b map[string]time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if !b[k].Equal(v) {
			return false
		}
	}
	return true
}

func parseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", path)
	}
	return &m, nil
}

// toolDef validates the manifest and builds both the ToolDef projection and
// its backing registry command.
func (m *Manifest) toolDef() (ToolDef, error) {
	if m.Name == "" {
		return ToolDef{}, fmt.Errorf("missing tool name")
	}
	if m.Exec.Command == "" {
		return ToolDef{}, fmt.Errorf("tool %s has no exec.command", m.Name)
	}

	cmd := &command.Command{
		BaseName:    m.Name,
		Summary:     m.Summary,
		Description: m.Description,
		Params:      m.Params,
		Hidden:      m.Hidden,
		Tags:        m.Tags,
		Destructive: m.Destructive,
		Run:         m.Exec.handler(),
	}

	if m.Version != "" {
		v, err := semver.StrictNewVersion(m.Version)
		if err != nil {
			return ToolDef{}, fmt.Errorf("invalid version %q: %w", m.Version, err)
		}
		cmd.Version = v
	}

	if m.Deprecated != nil {
		cmd.Deprecated = true
		cmd.DeprecatedMessage = m.Deprecated.Message
		if m.Deprecated.Version != "" {
			v, err := semver.StrictNewVersion(m.Deprecated.Version)
			if err != nil {
				return ToolDef{}, fmt.Errorf("invalid deprecated version %q: %w", m.Deprecated.Version, err)
			}
			cmd.DeprecatedVersion = v
		}
	}

	// The provider exposes the manifest under its bare name; the registry
	// adds the pinned alias after RegisterAll.
	return fromCommand(m.Name, cmd, false), nil
}

// handler builds the subprocess callback for a manifest tool.
func (e ExecSpec) handler() command.Handler {
	timeout := defaultExecTimeout
	if e.TimeoutSeconds > 0 {
		timeout = time.Duration(e.TimeoutSeconds) * time.Second
	}

	return func(ctx context.Context, args map[string]any) (map[string]any, error) {
		execCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		input, err := json.Marshal(args)
		if err != nil {
			return nil, errors.Wrap(err, "encoding tool input")
		}

		proc := exec.CommandContext(execCtx, e.Command, e.Args...)
		proc.Dir = e.WorkDir
		proc.Stdin = bytes.NewReader(input)

		var stdout, stderr bytes.Buffer
		proc.Stdout = &limitedWriter{w: &stdout, n: maxExecOutput}
		proc.Stderr = &limitedWriter{w: &stderr, n: maxExecOutput}

		if err := proc.Run(); err != nil {
			if execCtx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("tool timed out after %s", timeout)
			}
			return nil, fmt.Errorf("tool exited with error: %w (stderr: %s)", err, stderr.String())
		}

		var out map[string]any
		if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
			// Plain-text tools are fine; wrap their output.
			return map[string]any{"output": stdout.String()}, nil
		}
		return out, nil
	}
}

// limitedWriter truncates after n bytes instead of failing the subprocess.
type limitedWriter struct {
	w *bytes.Buffer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	remaining := l.n - l.w.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		l.w.Write(p[:remaining])
		return len(p), nil
	}
	return l.w.Write(p)
}
