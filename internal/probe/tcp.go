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

// Package probe implements the four probe state machines from spec.md
// §4.4: TCP connect, TCP banner, UDP, and ICMP echo. Each owns its socket
// and deadline timer for the duration of one probe and releases both on
// every exit path, grounded on the connect-then-classify shape of the
// teacher's TCPScanner.checkPort.
package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

// TCPConnect attempts a full TCP connect and classifies the outcome per
// spec.md §4.4.
func TCPConnect(ctx context.Context, addr string, port int, timeout time.Duration) model.ScanResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return model.ScanResult{Port: port, State: classifyDialError(ctx, err), Detail: detailForDialError(ctx, err)}
	}
	conn.Close()

	return model.ScanResult{Port: port, State: model.StateOpen, Detail: "connect succeeded"}
}

// TCPBanner performs the connect step, then on success reads up to
// min(internalBuffer, bannerBytes) bytes within bannerTimeout.
func TCPBanner(ctx context.Context, addr string, port int, timeout, bannerTimeout time.Duration, bannerBytes int) model.ScanResult {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	cancel()
	if err != nil {
		return model.ScanResult{Port: port, State: classifyDialError(dialCtx, err), Detail: detailForDialError(dialCtx, err)}
	}
	defer conn.Close()

	const internalBuffer = 4096
	bufSize := bannerBytes
	if bufSize > internalBuffer {
		bufSize = internalBuffer
	}
	buf := make([]byte, bufSize)

	conn.SetReadDeadline(time.Now().Add(bannerTimeout))
	n, err := conn.Read(buf)

	switch {
	case err == nil && n > 0:
		return model.ScanResult{Port: port, State: model.StateOpen, Detail: "banner: " + string(buf[:n])}
	case errors.Is(err, os.ErrDeadlineExceeded):
		return model.ScanResult{Port: port, State: model.StateOpen, Detail: "no banner before deadline"}
	case err == io.EOF || n == 0:
		return model.ScanResult{Port: port, State: model.StateOpen, Detail: "no banner data"}
	default:
		return model.ScanResult{Port: port, State: model.StateOpen, Detail: "read error: " + err.Error()}
	}
}

func classifyDialError(ctx context.Context, err error) model.PortState {
	if ctx.Err() == context.DeadlineExceeded {
		return model.StateFilteredTime
	}
	if isConnRefused(err) {
		return model.StateClosed
	}
	return model.StateError
}

func detailForDialError(ctx context.Context, err error) string {
	if ctx.Err() == context.DeadlineExceeded {
		return "no response before deadline"
	}
	return err.Error()
}

func isConnRefused(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ECONNREFUSED
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

