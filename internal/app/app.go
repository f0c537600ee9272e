// Package app wires the resolver, probe engine, scan runner, change
// tracker, and output emitters into the four dispatch modes from
// spec.md §4.7: {icmp_ping ∧ ping_mode}, {icmp_ping}, {ping_mode}, {else}.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/richyo-codes/pulse-scan-cpp/internal/changetrack"
	"github.com/richyo-codes/pulse-scan-cpp/internal/logging"
	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
	"github.com/richyo-codes/pulse-scan-cpp/internal/probe"
	"github.com/richyo-codes/pulse-scan-cpp/internal/resolver"
	"github.com/richyo-codes/pulse-scan-cpp/internal/reversedns"
	"github.com/richyo-codes/pulse-scan-cpp/internal/scanrunner"
	"github.com/richyo-codes/pulse-scan-cpp/internal/status"
)

// App holds the collaborators a sweep needs, injected at construction time
// instead of threaded as an optional pointer through every task (spec.md
// §9's redesign note for the status pointer).
type App struct {
	Hosts   []string
	Opts    *model.ScanOptions
	Out     io.Writer
	Log     *logging.Logger
	Status  *status.Status
	Resolve resolver.Resolver
}

// New builds an App with production collaborators.
func New(hosts []string, opts *model.ScanOptions, out io.Writer) *App {
	log := logging.New(opts.Verbose, opts.DebugDNS)
	return &App{
		Hosts:   hosts,
		Opts:    opts,
		Out:     out,
		Log:     log,
		Status:  &status.Status{},
		Resolve: resolver.NewResolver(log),
	}
}

// Run dispatches to one of the four modes and blocks until that mode's
// work is done (single sweeps) or ctx is cancelled (ping-mode loops).
func (a *App) Run(ctx context.Context) error {
	switch {
	case a.Opts.ICMPPing && a.Opts.PingMode:
		return a.icmpChangeLoop(ctx)
	case a.Opts.ICMPPing:
		return a.icmpSweep(ctx)
	case a.Opts.PingMode:
		return a.portChangeLoop(ctx)
	default:
		return a.portSweep(ctx)
	}
}

func (a *App) resolveAll(ctx context.Context) []model.ResolvedTarget {
	targets := make([]model.ResolvedTarget, 0, len(a.Hosts))
	for _, host := range a.Hosts {
		rt, err := a.Resolve.Resolve(ctx, host, a.Opts)
		if err != nil {
			continue // per-host diagnostic already logged; skip this host
		}
		if len(rt.Addrs) == 0 {
			if rt.UsedRange {
				fmt.Fprintf(a.Out, "No addresses after IP filter for host %s\n", host)
			}
			continue
		}
		targets = append(targets, rt)
	}
	return targets
}

// totalTargets sums len(addrs)*len(ports) across targets, matching
// ping_loop.cpp's cycle_total accumulation for the port-mode counters.
func totalTargets(targets []model.ResolvedTarget, ports int) uint64 {
	var total uint64
	for _, t := range targets {
		total += uint64(len(t.Addrs)) * uint64(ports)
	}
	return total
}

// totalAddrs sums len(addrs) across targets, used for the ICMP-mode
// target counter where one probe (of possibly several aggregated
// attempts) corresponds to one address.
func totalAddrs(targets []model.ResolvedTarget) uint64 {
	var total uint64
	for _, t := range targets {
		total += uint64(len(t.Addrs))
	}
	return total
}

func (a *App) reverseMapFor(ctx context.Context, targets []model.ResolvedTarget) output.ReverseMap {
	if !a.Opts.ReverseDNS {
		return nil
	}
	var addrs []string
	for _, t := range targets {
		addrs = append(addrs, t.Addrs...)
	}
	return reversedns.Build(ctx, addrs)
}

// portSweep runs a single non-repeating port-mode sweep, emitting a
// tabular report per (host, address) in text mode or a JSON line per
// result in structured mode.
func (a *App) portSweep(ctx context.Context) error {
	targets := a.resolveAll(ctx)
	a.Status.SetTotalHosts(uint64(len(targets)))
	a.Status.SetTotalTargets(totalTargets(targets, len(a.Opts.Ports)))
	reverse := a.reverseMapFor(ctx, targets)

	var g errgroup.Group
	var mu sync.Mutex

	for _, target := range targets {
		target := target
		g.Go(func() error {
			byAddr := make(map[string][]model.ScanResult, len(target.Addrs))
			scanrunner.Run(ctx, target.Host, target.Addrs, a.Opts, func(rec model.ScanRecord) {
				mu.Lock()
				byAddr[rec.Addr] = append(byAddr[rec.Addr], rec.Result)
				if a.Opts.OutputFormat == model.OutputJSON && shouldReport(rec.Result, a.Opts.OpenOnly) {
					output.PortResult(a.Out, rec, reverse, false, a.Opts.Mode, a.Opts.OutputFormat)
				}
				a.Status.AddCompletedTargets(1)
				mu.Unlock()
			})

			if a.Opts.OutputFormat == model.OutputText {
				mu.Lock()
				for _, addr := range target.Addrs {
					output.ScanReport(a.Out, target.Host, addr, byAddr[addr], reverse, a.Opts.Mode, a.Opts.OpenOnly)
				}
				mu.Unlock()
			}

			a.Status.AddCompletedHosts(1)
			return nil
		})
	}

	g.Wait()
	return nil
}

// icmpSweep runs a single non-repeating ICMP sweep over every resolved
// address.
func (a *App) icmpSweep(ctx context.Context) error {
	targets := a.resolveAll(ctx)
	a.Status.SetTotalHosts(uint64(len(targets)))
	a.Status.SetTotalTargets(totalAddrs(targets))
	reverse := a.reverseMapFor(ctx, targets)

	var g errgroup.Group
	var mu sync.Mutex
	abortAll := false

	for _, target := range targets {
		target := target
		g.Go(func() error {
			for _, addr := range target.Addrs {
				mu.Lock()
				stop := abortAll
				mu.Unlock()
				if stop {
					break
				}

				result, abort := probe.ICMPAggregate(ctx, addr, a.Opts.Timeout, a.Opts.ICMPCount, isIPv6(addr))

				mu.Lock()
				if abort {
					abortAll = true
				}
				if shouldReportICMP(result, a.Opts.OpenOnly) {
					output.ICMPResult(a.Out, target.Host, addr, result, reverse, false, a.Opts.OutputFormat)
				}
				a.Status.AddCompletedTargets(1)
				mu.Unlock()
			}
			a.Status.AddCompletedHosts(1)
			return nil
		})
	}

	g.Wait()
	return nil
}

// portChangeLoop repeats the port sweep at Opts.PingInterval, emitting
// only first-pass results, state changes, and disappearances.
func (a *App) portChangeLoop(ctx context.Context) error {
	tracker := changetrack.New()

	for {
		a.Status.IncCycles()
		a.Status.ResetProgress()

		targets := a.resolveAll(ctx)
		a.Status.SetTotalHosts(uint64(len(targets)))
		a.Status.SetTotalTargets(totalTargets(targets, len(a.Opts.Ports)))
		reverse := a.reverseMapFor(ctx, targets)

		current := make(map[model.FingerprintKey]bool)
		var mu sync.Mutex
		var g errgroup.Group

		for _, target := range targets {
			target := target
			g.Go(func() error {
				scanrunner.Run(ctx, target.Host, target.Addrs, a.Opts, func(rec model.ScanRecord) {
					key := model.PortKey(rec.Host, rec.Addr, rec.Result.Port)

					mu.Lock()
					current[key] = true
					passes := !a.Opts.OpenOnly || rec.Result.State == model.StateOpen
					emit, isChange := tracker.Observe(key, string(rec.Result.State), rec.Result.Detail, passes)
					if emit {
						output.PortResult(a.Out, rec, reverse, isChange, a.Opts.Mode, a.Opts.OutputFormat)
					}
					a.Status.AddCompletedTargets(1)
					mu.Unlock()
				})
				a.Status.AddCompletedHosts(1)
				return nil
			})
		}

		g.Wait()

		for _, key := range tracker.EndCycle(current) {
			output.Unavailable(a.Out, key, true, a.Opts.Mode.String(), a.Opts.OutputFormat)
		}

		if !sleepOrDone(ctx, a.Opts.PingInterval) {
			return nil
		}
	}
}

// icmpChangeLoop repeats the ICMP sweep at Opts.PingInterval under the
// same change-tracking rules as portChangeLoop.
func (a *App) icmpChangeLoop(ctx context.Context) error {
	tracker := changetrack.New()

	for {
		a.Status.IncCycles()
		a.Status.ResetProgress()

		targets := a.resolveAll(ctx)
		a.Status.SetTotalHosts(uint64(len(targets)))
		a.Status.SetTotalTargets(totalAddrs(targets))
		reverse := a.reverseMapFor(ctx, targets)

		current := make(map[model.FingerprintKey]bool)
		var mu sync.Mutex
		var g errgroup.Group
		abortAll := false

		for _, target := range targets {
			target := target
			g.Go(func() error {
				for _, addr := range target.Addrs {
					mu.Lock()
					stop := abortAll
					mu.Unlock()
					if stop {
						break
					}

					result, abort := probe.ICMPAggregate(ctx, addr, a.Opts.Timeout, a.Opts.ICMPCount, isIPv6(addr))
					key := model.ICMPKey(target.Host, addr)

					mu.Lock()
					if abort {
						abortAll = true
					}
					current[key] = true
					passes := !a.Opts.OpenOnly || result.State == model.ICMPUp
					emit, isChange := tracker.Observe(key, string(result.State), result.Detail, passes)
					if emit {
						output.ICMPResult(a.Out, target.Host, addr, result, reverse, isChange, a.Opts.OutputFormat)
					}
					a.Status.AddCompletedTargets(1)
					mu.Unlock()
				}
				a.Status.AddCompletedHosts(1)
				return nil
			})
		}

		g.Wait()

		for _, key := range tracker.EndCycle(current) {
			output.Unavailable(a.Out, key, true, "icmp", a.Opts.OutputFormat)
		}

		if abortAll {
			return nil
		}

		if !sleepOrDone(ctx, a.Opts.PingInterval) {
			return nil
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func shouldReport(r model.ScanResult, openOnly bool) bool {
	if !openOnly {
		return true
	}
	return r.State == model.StateOpen
}

func shouldReportICMP(r model.IcmpResult, openOnly bool) bool {
	if !openOnly {
		return true
	}
	return r.State == model.ICMPUp
}

func isIPv6(addr string) bool {
	for _, c := range addr {
		if c == ':' {
			return true
		}
	}
	return false
}
