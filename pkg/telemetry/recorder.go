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

package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultRetentionDays is how long records are kept before the
	// post-append prune removes them.
	DefaultRetentionDays = 30

	remotePostTimeout = 5 * time.Second
)

// Options configure a Recorder.
type Options struct {
	// Path is the JSONL store location. The parent directory is
	// created on first write.
	Path string

	// RetentionDays bounds record age. Zero means DefaultRetentionDays;
	// negative disables pruning.
	RetentionDays int

	// Endpoint, when non-empty, receives a fire-and-forget POST of
	// each record. Delivery failures are ignored.
	Endpoint string

	// HTTPClient overrides the client used for remote delivery.
	HTTPClient *http.Client

	// Logger receives debug lines for swallowed failures. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Recorder appends invocation records to a JSONL file and prunes
// expired lines after every append. All failures are swallowed:
// telemetry must never affect an invocation's outcome.
type Recorder struct {
	mu        sync.Mutex
	path      string
	retention time.Duration
	endpoint  string
	client    *http.Client
	logger    *slog.Logger
	now       func() time.Time

	// wg tracks in-flight remote posts so Close can drain them.
	wg sync.WaitGroup
}

// NewRecorder creates a recorder writing to opts.Path.
func NewRecorder(opts Options) *Recorder {
	days := opts.RetentionDays
	if days == 0 {
		days = DefaultRetentionDays
	}
	var retention time.Duration
	if days > 0 {
		retention = time.Duration(days) * 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: remotePostTimeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Recorder{
		path:      opts.Path,
		retention: retention,
		endpoint:  opts.Endpoint,
		client:    client,
		logger:    logger,
		now:       now,
	}
}

// Record appends rec to the store, then prunes expired lines in place.
// Errors are logged at debug level and otherwise ignored.
func (r *Recorder) Record(rec Record) {
	if err := r.append(rec); err != nil {
		r.logger.Debug("telemetry append failed", "path", r.path, "error", err)
	}
	if err := r.prune(); err != nil {
		r.logger.Debug("telemetry prune failed", "path", r.path, "error", err)
	}
	if r.endpoint != "" {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.post(rec)
		}()
	}
}

// Close waits for in-flight remote deliveries.
func (r *Recorder) Close() {
	r.wg.Wait()
}

func (r *Recorder) append(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.Write(data)
	return err
}

// prune rewrites the store keeping every record younger than the
// retention window. Lines that fail to parse are kept verbatim so a
// corrupt entry never causes data loss for its neighbors.
func (r *Recorder) prune() error {
	if r.retention <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := r.now().Add(-r.retention)
	var out bytes.Buffer
	dropped := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			out.Write(line)
			out.WriteByte('\n')
			continue
		}
		if rec.RecordedAt.Before(cutoff) {
			dropped++
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if dropped == 0 {
		return nil
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, out.Bytes(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *Recorder) post(rec Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), remotePostTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(data))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	// The client may replay the POST on transient collector failures;
	// the key lets the collector deduplicate.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("telemetry post failed", "endpoint", r.endpoint, "error", err)
		return
	}
	resp.Body.Close()
}

// Read returns all parseable records in the store, oldest first.
func (r *Recorder) Read() ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return readRecords(r.path)
}

// Prune removes expired records immediately and reports how many were
// dropped. Unlike Record, errors are returned so callers driving an
// explicit prune can surface them.
func (r *Recorder) Prune() (int, error) {
	before, err := r.countLocked()
	if err != nil {
		return 0, err
	}
	if err := r.prune(); err != nil {
		return 0, err
	}
	after, err := r.countLocked()
	if err != nil {
		return 0, err
	}
	return before - after, nil
}

func (r *Recorder) countLocked() (int, error) {
	recs, err := r.Read()
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func readRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var recs []Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, sc.Err()
}
