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
	"os"
	"path/filepath"
)

// ConfigDir returns the XDG config directory for spool:
// ~/.config/spool, or $XDG_CONFIG_HOME/spool when set. macOS follows
// XDG here rather than ~/Library/Application Support.
func ConfigDir() (string, error) {
	var base string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		base = xdg
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}

	configDir := filepath.Join(base, "spool")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return configDir, nil
}

// DataDir returns the XDG data directory for spool:
// ~/.local/share/spool, or $XDG_DATA_HOME/spool when set.
func DataDir() (string, error) {
	var base string

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		base = xdg
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}

	dataDir := filepath.Join(base, "spool")
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}

	return dataDir, nil
}

// ToolsDir returns the default manifest directory, <config dir>/tools.
func ToolsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	toolsDir := filepath.Join(dir, "tools")
	if err := os.MkdirAll(toolsDir, 0700); err != nil {
		return "", err
	}
	return toolsDir, nil
}

// TelemetryStorePath returns the default JSONL store location.
func TelemetryStorePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "telemetry.jsonl"), nil
}
