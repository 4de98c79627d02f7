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

package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Security != "" {
		t.Errorf("Security = %q, want empty (resolved by the policy chain)", cfg.Security)
	}
	if cfg.Output != "text" {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
	if !cfg.TelemetryEnabled() {
		t.Error("telemetry disabled by default")
	}
	if cfg.Telemetry.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, want 30", cfg.Telemetry.RetentionDays)
	}
	if cfg.Manifests.Pattern != "**/*.{yaml,yml}" {
		t.Errorf("Pattern = %q", cfg.Manifests.Pattern)
	}
}

func TestTelemetryEnvOverride(t *testing.T) {
	cfg := Default()

	t.Setenv("SPOOL_TELEMETRY", "0")
	if cfg.TelemetryEnabled() {
		t.Error("SPOOL_TELEMETRY=0 did not disable telemetry")
	}

	t.Setenv("SPOOL_TELEMETRY", "1")
	disabled := false
	cfg.Telemetry.Enabled = &disabled
	if !cfg.TelemetryEnabled() {
		t.Error("SPOOL_TELEMETRY=1 did not override settings file")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := Default()
	cfg.Version = 1
	cfg.Security = "strict"
	cfg.Telemetry.RetentionDays = 7

	if err := SaveSettings(path, cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loaded.Security != "strict" {
		t.Errorf("Security = %q, want strict", loaded.Security)
	}
	if loaded.Telemetry.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", loaded.Telemetry.RetentionDays)
	}
	// Defaults fill unset fields on load.
	if loaded.Output != "text" {
		t.Errorf("Output = %q, want default text", loaded.Output)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.Version != 1 || cfg.Security != "" || cfg.Output != "text" {
		t.Errorf("cfg = %+v, want fresh defaults", cfg)
	}
}

func TestXDGOverrides(t *testing.T) {
	confHome := t.TempDir()
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(confHome, "spool") {
		t.Errorf("ConfigDir = %q", dir)
	}

	store, err := TelemetryStorePath()
	if err != nil {
		t.Fatal(err)
	}
	if store != filepath.Join(dataHome, "spool", "telemetry.jsonl") {
		t.Errorf("TelemetryStorePath = %q", store)
	}
}
