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

package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/time/rate"

	"github.com/richyo-codes/pulse-scan-cpp/internal/icmpcodec"
	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

// icmpRetryRate caps how fast ICMPAggregate fires repeat echo requests at
// the same address: one every 200ms, matching the spacing ping(8) uses
// between its own default-interval probes.
const icmpRetryRate = 5 // per second

// permissionHint is appended to the error detail when opening a raw/ICMP
// socket is denied. The "ICMP requires" substring is load-bearing: the
// per-host aggregation loop recognises it to stop the whole sweep early.
const permissionHint = "ICMP requires elevated privileges (CAP_NET_RAW or root); grant it and retry"

var icmpID = uint16(os.Getpid() & 0xFFFF)

// ICMPOnce sends one ICMP echo request to addr and waits up to timeout for
// a matching reply, per spec.md §4.4's single-attempt state machine.
func ICMPOnce(ctx context.Context, addr string, timeout time.Duration, ipv6 bool) model.IcmpResult {
	network, listenAddr := "ip4:icmp", "0.0.0.0"
	if ipv6 {
		network, listenAddr = "ip6:ipv6-icmp", "::"
	}

	conn, err := icmp.ListenPacket(network, listenAddr)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return model.IcmpResult{State: model.ICMPError, Detail: permissionHint}
		}
		return model.IcmpResult{State: model.ICMPError, Detail: err.Error()}
	}
	defer conn.Close()

	sequence := icmpcodec.NextSequence()

	dst, err := net.ResolveIPAddr(ipNetwork(ipv6), addr)
	if err != nil {
		return model.IcmpResult{State: model.ICMPError, Detail: err.Error()}
	}

	var pkt []byte
	if ipv6 {
		src := localAddrFor(addr)
		pkt = icmpcodec.BuildEchoRequestV6(src, dst.IP, icmpID, sequence)
	} else {
		pkt = icmpcodec.BuildEchoRequestV4(icmpID, sequence)
	}

	if _, err := conn.WriteTo(pkt, dst); err != nil {
		return model.IcmpResult{State: model.ICMPError, Detail: err.Error()}
	}

	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	conn.SetReadDeadline(deadline)

	buf := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return model.IcmpResult{State: model.ICMPDown, Detail: "timeout"}
			}
			return model.IcmpResult{State: model.ICMPError, Detail: err.Error()}
		}

		matched := false
		if ipv6 {
			matched = icmpcodec.ParseEchoReplyV6(buf[:n], icmpID, sequence)
		} else {
			matched = icmpcodec.ParseEchoReplyV4(buf[:n], icmpID, sequence)
		}
		if matched {
			return model.IcmpResult{State: model.ICMPUp, Detail: "echo reply"}
		}
		// Unrelated/mismatched message: keep waiting until the deadline.
	}
}

func ipNetwork(ipv6 bool) string {
	if ipv6 {
		return "ip6"
	}
	return "ip4"
}

// localAddrFor discovers the local source address used to reach dst, by
// connecting a UDP socket first and reading its local endpoint, as spec.md
// §4.2 requires for the v6 pseudo-header checksum.
func localAddrFor(dst string) net.IP {
	conn, err := net.Dial("udp6", net.JoinHostPort(dst, "1"))
	if err != nil {
		return net.IPv6zero
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP
}

// ICMPAggregate repeats ICMPOnce up to icmpCount times per spec.md §4.4's
// per-host aggregation rule: stop early on the first "up", or on any
// "error" whose detail contains the permission-denied marker (which also
// signals the caller to abort the whole sweep).
func ICMPAggregate(ctx context.Context, addr string, timeout time.Duration, icmpCount int, ipv6 bool) (result model.IcmpResult, abort bool) {
	limiter := rate.NewLimiter(icmpRetryRate, 1)
	limiter.Allow() // spend the initial token so the first retry also waits

	attempts := 0
	for i := 0; i < icmpCount; i++ {
		if i > 0 {
			if err := limiter.Wait(ctx); err != nil {
				return result, false
			}
		}
		attempts++
		result = ICMPOnce(ctx, addr, timeout, ipv6)

		if result.State == model.ICMPUp {
			return result, false
		}
		if result.State == model.ICMPError && strings.Contains(result.Detail, "ICMP requires") {
			return result, true
		}
	}

	if result.State == model.ICMPDown && attempts > 1 {
		result.Detail = "timeout (" + strconv.Itoa(attempts) + "x)"
	}
	return result, false
}
