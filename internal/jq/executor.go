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

// Package jq evaluates jq expressions against envelope output, backing
// the --query flag.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

const (
	// DefaultTimeout bounds a single expression evaluation.
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize caps the input document size (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Executor evaluates jq expressions with timeout and size limits.
type Executor struct {
	timeout      time.Duration
	maxInputSize int64
}

// NewExecutor creates an executor; zero values take the defaults.
func NewExecutor(timeout time.Duration, maxInputSize int64) *Executor {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}
	return &Executor{timeout: timeout, maxInputSize: maxInputSize}
}

// Execute runs expression against data. An empty expression returns
// data unchanged. A single jq result is returned directly; multiple
// results come back as a slice.
func (e *Executor) Execute(ctx context.Context, expression string, data any) (any, error) {
	if expression == "" {
		return data, nil
	}

	if err := e.validateInputSize(data); err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}

	resultChan := make(chan any, 1)
	errorChan := make(chan error, 1)

	go func() {
		iter := code.Run(data)

		var results []any
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				errorChan <- err
				return
			}
			results = append(results, v)
		}

		switch len(results) {
		case 0:
			resultChan <- nil
		case 1:
			resultChan <- results[0]
		default:
			resultChan <- results
		}
	}()

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errorChan:
		return nil, err
	case <-execCtx.Done():
		return nil, fmt.Errorf("execution timeout after %v", e.timeout)
	}
}

// Validate compiles an expression to catch syntax errors before any
// command runs.
func (e *Executor) Validate(expression string) error {
	if expression == "" {
		return nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}
	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("jq compilation failed: %w", err)
	}
	return nil
}

func (e *Executor) validateInputSize(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	if int64(len(jsonData)) > e.maxInputSize {
		return fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)",
			len(jsonData), e.maxInputSize)
	}
	return nil
}
