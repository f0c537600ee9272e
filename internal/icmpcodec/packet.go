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

// Package icmpcodec builds ICMP echo requests (v4 and v6) and validates
// echo replies, grounded on the raw-socket send / golang.org/x/net/icmp
// listen split the teacher's ICMPSweeper already uses, generalized to
// cover both address families and the v6 pseudo-header.
package icmpcodec

import (
	"encoding/binary"
	"net"
	"sync/atomic"
)

const (
	typeEchoRequestV4 = 8
	typeEchoReplyV4   = 0
	typeEchoRequestV6 = 128
	typeEchoReplyV6   = 129

	headerLen = 8
)

// Payload is the fixed ASCII body appended after the 8-byte ICMP header.
const Payload = "pulsescan-go"

// seq is the single per-process monotonic sequence counter spec.md §9
// calls for — a single atomic cell owned by the codec.
var seq uint32

// NextSequence increments and returns the next 16-bit sequence number.
func NextSequence() uint16 {
	return uint16(atomic.AddUint32(&seq, 1))
}

// BuildEchoRequestV4 builds an ICMPv4 echo request with the given
// identifier and sequence, checksum included.
func BuildEchoRequestV4(id, sequence uint16) []byte {
	pkt := buildHeader(typeEchoRequestV4, id, sequence)
	binary.BigEndian.PutUint16(pkt[2:4], checksum(pkt))
	return pkt
}

// BuildEchoRequestV6 builds an ICMPv6 echo request. The checksum covers the
// IPv6 pseudo-header (source, destination, length, next-header=58)
// concatenated with the ICMPv6 message, per spec.md §4.2.
func BuildEchoRequestV6(src, dst net.IP, id, sequence uint16) []byte {
	pkt := buildHeader(typeEchoRequestV6, id, sequence)
	sum := checksum(append(pseudoHeaderV6(src, dst, len(pkt)), pkt...))
	binary.BigEndian.PutUint16(pkt[2:4], sum)
	return pkt
}

func buildHeader(icmpType byte, id, sequence uint16) []byte {
	pkt := make([]byte, headerLen+len(Payload))
	pkt[0] = icmpType
	pkt[1] = 0 // code
	// pkt[2:4] checksum, filled by the caller
	binary.BigEndian.PutUint16(pkt[4:6], id)
	binary.BigEndian.PutUint16(pkt[6:8], sequence)
	copy(pkt[8:], Payload)
	return pkt
}

func pseudoHeaderV6(src, dst net.IP, length int) []byte {
	ph := make([]byte, 40)
	copy(ph[0:16], src.To16())
	copy(ph[16:32], dst.To16())
	binary.BigEndian.PutUint32(ph[32:36], uint32(length))
	ph[39] = 58 // next header: ICMPv6
	return ph
}

// ParseEchoReplyV4 reports whether b is an echo reply matching (id, seq).
// An outer IPv4 header (IHL*4 bytes), if present, is skipped first.
func ParseEchoReplyV4(b []byte, id, sequence uint16) bool {
	b = skipIPv4Header(b)
	return parseReply(b, typeEchoReplyV4, id, sequence)
}

// ParseEchoReplyV6 reports whether b is an echo reply matching (id, seq).
// An outer IPv6 header (fixed 40 bytes), if present, is skipped first.
func ParseEchoReplyV6(b []byte, id, sequence uint16) bool {
	b = skipIPv6Header(b)
	return parseReply(b, typeEchoReplyV6, id, sequence)
}

func parseReply(b []byte, wantType byte, id, sequence uint16) bool {
	if len(b) < headerLen {
		return false
	}
	if b[0] != wantType || b[1] != 0 {
		return false
	}
	gotID := binary.BigEndian.Uint16(b[4:6])
	gotSeq := binary.BigEndian.Uint16(b[6:8])
	return gotID == id && gotSeq == sequence
}

// skipIPv4Header drops a leading IPv4 header if b looks like it starts
// with one (version nibble 4), otherwise returns b unchanged.
func skipIPv4Header(b []byte) []byte {
	if len(b) < 20 {
		return b
	}
	version := b[0] >> 4
	if version != 4 {
		return b
	}
	ihl := int(b[0]&0x0F) * 4
	if ihl < 20 || ihl > len(b) {
		return b
	}
	return b[ihl:]
}

// skipIPv6Header drops a leading fixed 40-byte IPv6 header if present.
// Detection is heuristic: an ICMPv6 message's first byte (type) would be
// 128/129 for echo request/reply, which never collides with IPv6's
// version nibble 6 in the high bits.
func skipIPv6Header(b []byte) []byte {
	if len(b) < 48 {
		return b
	}
	version := b[0] >> 4
	if version != 6 {
		return b
	}
	return b[40:]
}
