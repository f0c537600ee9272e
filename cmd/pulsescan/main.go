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

// Command pulsescan is a coroutine-driven — in Go, goroutine-driven —
// network reconnaissance tool: it resolves targets, probes TCP/UDP ports
// or sends ICMP echo requests, and optionally repeats the sweep reporting
// only state changes.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/richyo-codes/pulse-scan-cpp/internal/app"
	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/options"
	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
	"github.com/richyo-codes/pulse-scan-cpp/internal/portlist"
	"github.com/richyo-codes/pulse-scan-cpp/internal/sandbox"
)

type cliFlags struct {
	ports         string
	timeout       float64
	maxInflight   int
	mode          string
	outputFormat  string
	bannerTimeout float64
	bannerBytes   int
	ping          bool
	open          bool
	debugDNS      bool
	verbose       bool
	ipv4Only      bool
	ipv6Only      bool
	icmpPing      bool
	icmpCount     int
	topPorts      int
	reverseDNS    bool
	interval      float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f cliFlags

	cmd := &cobra.Command{
		Use:           "pulsescan HOST [HOST...]",
		Short:         "Coroutine-driven network reconnaissance over TCP, UDP, and ICMP",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.ports, "ports", "p", "", "comma list with ranges, e.g. 22,80,8000-8010")
	flags.Float64VarP(&f.timeout, "timeout", "t", 1.0, "per-probe deadline, seconds")
	flags.IntVar(&f.maxInflight, "max-inflight", 200, "max concurrent outstanding probes per host")
	flags.StringVarP(&f.mode, "mode", "m", "connect", "probe mode: connect, banner, or udp")
	flags.StringVar(&f.outputFormat, "output", "text", "output format: text or json")
	flags.Float64Var(&f.bannerTimeout, "banner-timeout", 0.5, "banner read deadline, seconds")
	flags.IntVar(&f.bannerBytes, "banner-bytes", 128, "max bytes read from a banner")
	flags.BoolVar(&f.ping, "ping", false, "repeat the sweep, reporting only state changes")
	flags.BoolVar(&f.open, "open", false, "only show open/up results")
	flags.BoolVar(&f.debugDNS, "debug-dns", false, "log DNS resolution results")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVarP(&f.ipv4Only, "4", "4", false, "resolve IPv4 addresses only")
	flags.BoolVarP(&f.ipv6Only, "6", "6", false, "resolve IPv6 addresses only")
	flags.BoolVar(&f.icmpPing, "icmp-ping", false, "send ICMP echo requests instead of probing ports")
	flags.IntVarP(&f.icmpCount, "icmp-count", "c", 1, "ICMP echo attempts per address")
	flags.IntVar(&f.topPorts, "top-ports", 0, "scan the N most common ports instead of the default list")
	flags.BoolVar(&f.reverseDNS, "reverse-dns", false, "resolve PTR names for display")
	flags.Float64Var(&f.interval, "interval", 1.0, "ping-mode sweep interval, seconds")

	return cmd
}

func runScan(ctx context.Context, hosts []string, f cliFlags) error {
	opts, err := buildOptions(f)
	if err != nil {
		return err
	}
	if err := options.Validate(opts); err != nil {
		return err
	}

	if opts.Sandbox {
		result := sandbox.Apply(hosts)
		switch result.Status {
		case sandbox.Failed:
			fmt.Fprintln(os.Stderr, result.Message)
			return fmt.Errorf("sandbox: %s", result.Message)
		case sandbox.Applied, sandbox.Skipped:
			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "sandbox: %s (%s)\n", result.Status, result.Message)
			}
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(hosts, opts, os.Stdout)

	if runtime.GOOS != "windows" {
		go watchStatusKeypress(ctx, a)
	}
	go watchStatusSignal(ctx, a)

	err = a.Run(ctx)

	fmt.Fprintln(os.Stderr, a.Status.String())

	return err
}

func buildOptions(f cliFlags) (*model.ScanOptions, error) {
	mode, err := parseMode(f.mode)
	if err != nil {
		return nil, err
	}

	outFmt, err := parseOutputFormat(f.outputFormat)
	if err != nil {
		return nil, err
	}

	ports, err := resolvePorts(f)
	if err != nil {
		return nil, err
	}

	return &model.ScanOptions{
		Ports:         ports,
		Timeout:       secondsToDuration(f.timeout),
		BannerTimeout: secondsToDuration(f.bannerTimeout),
		BannerBytes:   f.bannerBytes,
		MaxInflight:   f.maxInflight,
		Mode:          mode,
		PingMode:      f.ping,
		PingInterval:  secondsToDuration(f.interval),
		ICMPCount:     f.icmpCount,
		OpenOnly:      f.open,
		DebugDNS:      f.debugDNS,
		Verbose:       f.verbose,
		IPv4Only:      f.ipv4Only,
		IPv6Only:      f.ipv6Only,
		ICMPPing:      f.icmpPing,
		ReverseDNS:    f.reverseDNS,
		Sandbox:       true,
		OutputFormat:  outFmt,
	}, nil
}

func resolvePorts(f cliFlags) ([]int, error) {
	if f.icmpPing {
		if f.ports != "" || f.topPorts > 0 {
			return nil, fmt.Errorf("--icmp-ping conflicts with -p/--ports and --top-ports")
		}
		return nil, nil
	}

	if f.topPorts > 0 {
		if f.ports != "" {
			return nil, fmt.Errorf("--top-ports conflicts with -p/--ports")
		}
		if f.topPorts > output.TopPortsLimit() {
			return nil, fmt.Errorf("--top-ports must be <= %d", output.TopPortsLimit())
		}
		return output.TopPorts(f.topPorts), nil
	}

	if f.ports == "" {
		return append([]int(nil), output.DevPorts...), nil
	}

	return portlist.Parse(f.ports)
}

func parseMode(s string) (model.Mode, error) {
	switch s {
	case "connect":
		return model.ModeTCPConnect, nil
	case "banner":
		return model.ModeTCPBanner, nil
	case "udp":
		return model.ModeUDP, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want connect, banner, or udp)", s)
	}
}

func parseOutputFormat(s string) (model.OutputFormat, error) {
	switch s {
	case "text":
		return model.OutputText, nil
	case "json":
		return model.OutputJSON, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// watchStatusSignal prints the status summary on SIGINFO/SIGUSR1 instead
// of exiting, matching the INFO-signal handling in spec.md §4.7 where
// available.
func watchStatusSignal(ctx context.Context, a *app.App) {
	infoCh := make(chan os.Signal, 1)
	notifyInfo(infoCh)
	defer signal.Stop(infoCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-infoCh:
			fmt.Fprintln(os.Stderr, a.Status.String())
		}
	}
}

// watchStatusKeypress prints the status summary whenever a line is read
// from standard input, per spec.md §4.7's non-Windows keypress watch.
func watchStatusKeypress(ctx context.Context, a *app.App) {
	reader := bufio.NewReader(os.Stdin)
	for {
		if ctx.Err() != nil {
			return
		}
		if _, err := reader.ReadString('\n'); err != nil {
			return
		}
		fmt.Fprintln(os.Stderr, a.Status.String())
	}
}
