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
	"syscall"
	"time"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/udpprobe"
)

// UDP connects a UDP socket to (addr, port) — so ICMP unreachables surface
// as socket errors — sends the port-specific payload, and awaits a reply
// up to timeout, per spec.md §4.4.
func UDP(ctx context.Context, addr string, port int, timeout time.Duration) model.ScanResult {
	conn, err := net.Dial("udp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return model.ScanResult{Port: port, State: classifyUDPError(err), Detail: errString(err)}
	}
	defer conn.Close()

	payload := udpprobe.Payload(port)
	if _, err := conn.Write(payload); err != nil {
		return model.ScanResult{Port: port, State: classifyUDPError(err), Detail: errString(err)}
	}

	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	conn.SetReadDeadline(deadline)

	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	switch {
	case err == nil:
		return model.ScanResult{Port: port, State: model.StateOpen, Detail: "received " + strconv.Itoa(n) + " bytes"}
	case errors.Is(err, os.ErrDeadlineExceeded):
		return model.ScanResult{Port: port, State: model.StateOpenOrFiltered, Detail: "no response before deadline"}
	default:
		return model.ScanResult{Port: port, State: classifyUDPError(err), Detail: errString(err)}
	}
}

func classifyUDPError(err error) model.PortState {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET:
			return model.StateClosed
		}
	}
	return model.StateError
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
