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
	"golang.org/x/time/rate"
)

// Rate limits for agent-driven invocations. Destructive commands get a
// much tighter budget than plain calls.
const (
	callsPerMinute       = 100
	destructivePerMinute = 10
)

// rateGuard applies separate token buckets to all calls and to
// destructive calls.
type rateGuard struct {
	calls       *rate.Limiter
	destructive *rate.Limiter
}

func newRateGuard() *rateGuard {
	return &rateGuard{
		calls:       rate.NewLimiter(rate.Limit(callsPerMinute)/60, callsPerMinute),
		destructive: rate.NewLimiter(rate.Limit(destructivePerMinute)/60, destructivePerMinute),
	}
}

func (g *rateGuard) allowCall() bool {
	return g.calls.Allow()
}

func (g *rateGuard) allowDestructive() bool {
	return g.destructive.Allow()
}
