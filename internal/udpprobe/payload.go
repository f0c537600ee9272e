// Package udpprobe returns a port-specific UDP payload, or a one-byte
// default, per spec.md §4.3.
package udpprobe

import "github.com/miekg/dns"

const (
	PortDNS  = 53
	PortNTP  = 123
	PortQUIC = 443
	PortSIP  = 5060
	PortIAX2 = 4569
)

// Payload returns the probe datagram for the given destination port.
func Payload(port int) []byte {
	switch port {
	case PortDNS:
		return dnsQuery()
	case PortNTP:
		return []byte{0x23} // LI=0, VN=4, Mode=3 (client)
	case PortQUIC:
		return quicVersionNegotiation()
	case PortSIP:
		return sipOptions()
	case PortIAX2:
		return iax2Ping()
	default:
		return []byte{0x00}
	}
}

// dnsQuery builds a standard A-record query for example.com with the
// query ID fixed at 0x1234 and recursion desired, using miekg/dns instead
// of a hand-rolled wire encoding.
func dnsQuery() []byte {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn("example.com"), dns.TypeA)
	// SetQuestion assigns a random ID, so the fixed one is set afterwards.
	m.Id = 0x1234
	m.RecursionDesired = true

	b, err := m.Pack()
	if err != nil {
		// Packing a well-formed SetQuestion result cannot fail; fall back
		// to a minimal empty header rather than panic on the hot path.
		return []byte{0x12, 0x34, 0x01, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	}
	return b
}

// quicVersionNegotiation builds a QUIC long-header packet advertising the
// reserved/unsupported version 0x0A0A0A0A with 8-byte destination and
// source connection IDs, per spec.md §4.3.
func quicVersionNegotiation() []byte {
	buf := make([]byte, 0, 1+4+1+8+1+8)
	buf = append(buf, 0xC0) // long header, fixed bit set
	buf = append(buf, 0x0A, 0x0A, 0x0A, 0x0A) // version
	buf = append(buf, 0x08) // DCID length
	buf = append(buf, make([]byte, 8)...)
	buf = append(buf, 0x08) // SCID length
	buf = append(buf, make([]byte, 8)...)
	return buf
}

func sipOptions() []byte {
	msg := "OPTIONS sip:probe@example.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP 0.0.0.0:5060;branch=z9hG4bK-pulsescan\r\n" +
		"Max-Forwards: 70\r\n" +
		"From: <sip:probe@pulsescan>;tag=pulsescan\r\n" +
		"To: <sip:probe@example.com>\r\n" +
		"Call-ID: pulsescan@probe\r\n" +
		"CSeq: 1 OPTIONS\r\n" +
		"Content-Length: 0\r\n\r\n"
	return []byte(msg)
}

// iax2Ping builds a minimal IAX2 full frame carrying an IAX PING subclass.
func iax2Ping() []byte {
	const (
		fullFrameBit  = 0x8000
		frameTypeIAX  = 0x06
		subclassPing  = 0x02
	)
	buf := make([]byte, 12)
	buf[0] = fullFrameBit >> 8 // source call number high bit set => full frame
	buf[1] = 0x00
	buf[2] = 0 // dest call number high
	buf[3] = 0 // dest call number low
	buf[4] = 0 // timestamp
	buf[5] = 0
	buf[6] = 0
	buf[7] = 0
	buf[8] = 0 // oseqno
	buf[9] = 0 // iseqno
	buf[10] = frameTypeIAX
	buf[11] = subclassPing
	return buf
}
