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

// Package telemetry records per-invocation usage metrics to a local
// append-only JSONL store, with optional forwarding to a remote
// collector. Records carry timing and outcome metadata only; command
// arguments and results are never persisted.
package telemetry

import (
	"time"
)

// SchemaVersion identifies the record layout. Bump when fields change
// meaning so downstream consumers can dispatch on it.
const SchemaVersion = 1

// Record is a single invocation measurement. The command field is
// app-qualified ("<app>.<command token>") so records from multiple
// binaries can share a collector.
type Record struct {
	SchemaVersion int       `json:"schema_version"`
	RecordedAt    time.Time `json:"recorded_at"`
	App           string    `json:"app"`
	Command       string    `json:"command"`
	Success       bool      `json:"success"`
	DurationMS    int64     `json:"duration_ms"`
	ExitCode      int       `json:"exit_code"`
	ErrorCode     string    `json:"error_code,omitempty"`
	ErrorCategory string    `json:"error_category,omitempty"`
}

// NewRecord stamps a record with the current schema version and time.
func NewRecord(app, command string) Record {
	return Record{
		SchemaVersion: SchemaVersion,
		RecordedAt:    time.Now().UTC(),
		App:           app,
		Command:       command,
	}
}
