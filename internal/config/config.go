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

// Package config resolves the effective runtime settings. Resolution
// happens once at startup with the precedence chain: explicit flag,
// then SPOOL_* environment variable, then the settings file, then the
// built-in default. Values never change mid-execution.
package config

import (
	"os"
	"strings"
)

// Config is the persisted settings shape (settings.yaml).
type Config struct {
	// Version is the settings schema version.
	Version int `yaml:"version"`

	// Security is the destructive-command policy: off, standard, strict.
	// Empty means "not configured": invoke.ResolvePolicy then consults
	// SPOOL_SECURITY before falling back to standard.
	Security string `yaml:"security,omitempty"`

	// Output is the default rendering format: text or json.
	Output string `yaml:"output,omitempty"`

	// Telemetry configures local usage recording.
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`

	// Manifests configures file-backed tool definitions.
	Manifests ManifestConfig `yaml:"manifests,omitempty"`
}

// TelemetryConfig controls the JSONL usage store.
type TelemetryConfig struct {
	// Enabled toggles recording. Default: true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Path overrides the store location. Default: <data dir>/telemetry.jsonl.
	Path string `yaml:"path,omitempty"`

	// RetentionDays bounds record age. Default: 30.
	RetentionDays int `yaml:"retention_days,omitempty"`

	// Endpoint receives a fire-and-forget copy of each record when set.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// ManifestConfig controls manifest-driven command registration.
type ManifestConfig struct {
	// Dir is the manifest directory. Default: <config dir>/tools.
	Dir string `yaml:"dir,omitempty"`

	// Pattern is the manifest glob. Default: **/*.{yaml,yml}.
	Pattern string `yaml:"pattern,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// Security stays empty when unconfigured so the environment
	// override keeps its place in the precedence chain.
	if c.Output == "" {
		c.Output = "text"
	}
	if c.Telemetry.Enabled == nil {
		enabled := true
		c.Telemetry.Enabled = &enabled
	}
	if c.Telemetry.RetentionDays == 0 {
		c.Telemetry.RetentionDays = 30
	}
	if c.Manifests.Pattern == "" {
		c.Manifests.Pattern = "**/*.{yaml,yml}"
	}
}

// TelemetryEnabled reports whether recording is on, honoring the
// SPOOL_TELEMETRY environment override.
func (c *Config) TelemetryEnabled() bool {
	if v := os.Getenv("SPOOL_TELEMETRY"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "off", "no":
			return false
		default:
			return true
		}
	}
	return c.Telemetry.Enabled == nil || *c.Telemetry.Enabled
}

// TelemetryPath resolves the store path, falling back to the data dir.
func (c *Config) TelemetryPath() (string, error) {
	if c.Telemetry.Path != "" {
		return c.Telemetry.Path, nil
	}
	return TelemetryStorePath()
}

// ManifestDir resolves the manifest directory, falling back to
// <config dir>/tools.
func (c *Config) ManifestDir() (string, error) {
	if c.Manifests.Dir != "" {
		return c.Manifests.Dir, nil
	}
	return ToolsDir()
}
