/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package scanrunner drives the bounded-concurrency fan-out from spec.md
// §4.5 over a single host's (address, port) pairs.
//
// spec.md §9 flags the original's recursive self-rescheduling lambda and
// its shared-capture scheduler state as patterns needing re-architecture.
// This replaces both with the fixed worker-pool form the teacher's
// TCPScanner.Scan already uses: a bounded set of goroutines draining one
// shared channel until it's closed, with completion tracked by a
// WaitGroup instead of a hand-rolled inflight counter guarded by a strand.
package scanrunner

import (
	"context"
	"fmt"
	"sync"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/probe"
)

// pair is one (address, port) unit of work.
type pair struct {
	addr string
	port int
}

// Callback receives exactly one ScanRecord per queued pair. The runner
// wraps panics from the callback so a misbehaving sink cannot crash a
// worker, per spec.md §4.5.
type Callback func(model.ScanRecord)

// Run builds the FIFO of (address, port) pairs — addresses outer, ports
// inner — and drains it with min(maxInflight, len(queue)) workers. It
// returns once every pair has produced exactly one callback invocation.
func Run(ctx context.Context, host string, addrs []string, opts *model.ScanOptions, cb Callback) {
	work := make(chan pair)

	workers := opts.MaxInflight
	total := len(addrs) * len(opts.Ports)
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for p := range work {
				runOne(ctx, host, p, opts, cb)
			}
		}()
	}

	for _, addr := range addrs {
		for _, port := range opts.Ports {
			select {
			case work <- pair{addr: addr, port: port}:
			case <-ctx.Done():
			}
		}
	}
	close(work)

	wg.Wait()
}

func runOne(ctx context.Context, host string, p pair, opts *model.ScanOptions, cb Callback) {
	result := invokeProbe(ctx, p, opts)
	deliver(host, p.addr, result, cb)
}

// invokeProbe recovers from a panicking probe and converts it into an
// error ScanResult, per spec.md §4.5/§7 — the runner never aborts.
func invokeProbe(ctx context.Context, p pair, opts *model.ScanOptions) (result model.ScanResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.ScanResult{Port: p.port, State: model.StateError, Detail: fmt.Sprintf("panic: %v", r)}
		}
	}()

	switch opts.Mode {
	case model.ModeTCPConnect:
		return probe.TCPConnect(ctx, p.addr, p.port, opts.Timeout)
	case model.ModeTCPBanner:
		return probe.TCPBanner(ctx, p.addr, p.port, opts.Timeout, opts.BannerTimeout, opts.BannerBytes)
	case model.ModeUDP:
		return probe.UDP(ctx, p.addr, p.port, opts.Timeout)
	default:
		return model.ScanResult{Port: p.port, State: model.StateError, Detail: "unknown mode"}
	}
}

// deliver invokes the callback, catching any panic it raises so a
// misbehaving sink cannot crash a worker.
func deliver(host, addr string, result model.ScanResult, cb Callback) {
	defer func() {
		_ = recover()
	}()
	cb(model.ScanRecord{Host: host, Addr: addr, Result: result})
}
