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

package server

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spoolkit/spool/pkg/errors"
)

// debounceWindow coalesces rapid filesystem events (editors write
// several events per save) into one reload.
const debounceWindow = 250 * time.Millisecond

// watchManifests watches the manifest directory and re-registers the
// tool set when files change. Returns a stop function.
func (s *Server) watchManifests(ctx context.Context) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.manifest.Dir); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounceWindow)
					fire = timer.C
				} else {
					timer.Reset(debounceWindow)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("manifest watch error", "error", err)
			case <-fire:
				timer = nil
				fire = nil
				s.reloadManifests(ctx)
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}

// reloadManifests picks up new manifest tools and refreshes the served
// set. Tokens already registered are left alone; the registry treats
// re-registration as a conflict.
func (s *Server) reloadManifests(ctx context.Context) {
	defs, changed, err := s.manifest.LoadIfChanged(ctx)
	if err != nil {
		s.logger.Warn("manifest reload failed", "error", err)
		return
	}
	if !changed {
		return
	}

	for _, def := range defs {
		if def.Source == nil {
			continue
		}
		if err := s.registry.Register(def.Source); err != nil {
			var conflict *errors.RegistrationConflictError
			if errors.As(err, &conflict) {
				continue
			}
			s.logger.Warn("manifest registration failed", "error", err)
		}
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("tool refresh failed", "error", err)
		return
	}
	s.logger.Info("manifest tools reloaded")
}
