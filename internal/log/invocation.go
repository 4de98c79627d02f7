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

package log

import "log/slog"

// Invocation captures the loggable outcome of one command invocation.
// Argument and result payloads are deliberately absent.
type Invocation struct {
	// Token is the resolved command token.
	Token string

	// Success indicates whether the invocation produced a success envelope.
	Success bool

	// ErrorCode is the structured error code on failure.
	ErrorCode string

	// DurationMs is the measured callback duration in milliseconds.
	DurationMs int64
}

// LogInvocationStart logs the beginning of a command invocation.
func LogInvocationStart(logger *slog.Logger, token string) {
	logger.Debug("invocation started",
		EventKey, "invocation_start",
		CommandKey, token,
	)
}

// LogInvocationEnd logs the outcome of a command invocation.
func LogInvocationEnd(logger *slog.Logger, inv *Invocation) {
	attrs := []any{
		EventKey, "invocation_end",
		CommandKey, inv.Token,
		"success", inv.Success,
		DurationKey, inv.DurationMs,
	}
	if inv.ErrorCode != "" {
		attrs = append(attrs, "error_code", inv.ErrorCode)
	}

	if inv.Success {
		logger.Info("invocation completed", attrs...)
	} else {
		logger.Warn("invocation failed", attrs...)
	}
}
