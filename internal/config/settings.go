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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrLockTimeout is returned when file lock acquisition times out.
var ErrLockTimeout = errors.New("configuration locked by another process")

// lockTimeout is the maximum duration to wait for lock acquisition.
const lockTimeout = 5 * time.Second

// SettingsFile manages settings.yaml with file locking so concurrent
// spool processes cannot corrupt it.
type SettingsFile struct {
	path     string
	lockFile *os.File
}

// SettingsPath returns the full path to the settings.yaml file.
func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.yaml"), nil
}

// NewSettingsFile creates a SettingsFile for the given path; an empty
// path means the default settings location.
func NewSettingsFile(path string) (*SettingsFile, error) {
	if path == "" {
		var err error
		path, err = SettingsPath()
		if err != nil {
			return nil, fmt.Errorf("resolve settings path: %w", err)
		}
	}
	return &SettingsFile{path: path}, nil
}

// Lock acquires an exclusive lock on the settings file, returning
// ErrLockTimeout when another process holds it past the deadline.
func (s *SettingsFile) Lock() error {
	lockPath := s.path + ".lock"

	if err := os.MkdirAll(filepath.Dir(lockPath), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	deadline := time.Now().Add(lockTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err == nil {
			s.lockFile = lockFile
			return nil
		}
		if time.Now().After(deadline) {
			lockFile.Close()
			return ErrLockTimeout
		}
		<-ticker.C
	}
}

// Unlock releases the file lock.
func (s *SettingsFile) Unlock() error {
	if s.lockFile == nil {
		return nil
	}
	if err := syscall.Flock(int(s.lockFile.Fd()), syscall.LOCK_UN); err != nil {
		s.lockFile.Close()
		s.lockFile = nil
		return fmt.Errorf("unlock: %w", err)
	}
	err := s.lockFile.Close()
	s.lockFile = nil
	return err
}

// Load reads the settings file, returning defaults when it does not
// exist. The file must be locked before calling this method.
func (s *SettingsFile) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.Version = 1
			return cfg, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse settings YAML: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename).
// The file must be locked before calling this method.
func (s *SettingsFile) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings YAML: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename temporary file: %w", err)
	}
	return nil
}

// WithLock executes fn while holding the file lock.
func (s *SettingsFile) WithLock(fn func() error) error {
	if err := s.Lock(); err != nil {
		return err
	}
	defer s.Unlock()
	return fn()
}

// LoadSettings loads settings with automatic locking.
func LoadSettings(path string) (*Config, error) {
	sf, err := NewSettingsFile(path)
	if err != nil {
		return nil, err
	}

	var cfg *Config
	err = sf.WithLock(func() error {
		var loadErr error
		cfg, loadErr = sf.Load()
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveSettings saves settings with automatic locking.
func SaveSettings(path string, cfg *Config) error {
	sf, err := NewSettingsFile(path)
	if err != nil {
		return err
	}
	return sf.WithLock(func() error {
		return sf.Save(cfg)
	})
}
