package icmpcodec

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum_KnownVector(t *testing.T) {
	// Two 16-bit words, 0x0001 and 0xF203, sum to 0xF204; complemented
	// gives 0x0DFB.
	got := checksum([]byte{0x00, 0x01, 0xF2, 0x03})
	assert.Equal(t, uint16(0x0DFB), got)
}

func TestChecksum_OddLength(t *testing.T) {
	// A trailing odd byte is treated as the high byte of a padded word.
	withPad := checksum([]byte{0x00, 0x01, 0xF2})
	withoutPad := checksum([]byte{0x00, 0x01, 0xF2, 0x00})
	assert.Equal(t, withoutPad, withPad)
}

func TestBuildEchoRequestV4_FieldsAndChecksum(t *testing.T) {
	pkt := BuildEchoRequestV4(0x1234, 7)

	assert.Equal(t, byte(typeEchoRequestV4), pkt[0])
	assert.Equal(t, byte(0), pkt[1])
	assert.Equal(t, uint16(0x1234), binary.BigEndian.Uint16(pkt[4:6]))
	assert.Equal(t, uint16(7), binary.BigEndian.Uint16(pkt[6:8]))
	assert.Equal(t, Payload, string(pkt[8:]))

	// A correctly checksummed packet sums to zero.
	assert.Equal(t, uint16(0), checksum(pkt))
}

func TestParseEchoReplyV4_MatchesAndSkipsIPHeader(t *testing.T) {
	req := BuildEchoRequestV4(42, 3)
	reply := append([]byte(nil), req...)
	reply[0] = typeEchoReplyV4

	assert.True(t, ParseEchoReplyV4(reply, 42, 3))
	assert.False(t, ParseEchoReplyV4(reply, 42, 4))
	assert.False(t, ParseEchoReplyV4(reply, 99, 3))

	// Prepend a bare 20-byte IPv4 header (version/IHL byte = 0x45) and
	// confirm it's skipped before matching.
	withHeader := make([]byte, 20)
	withHeader[0] = 0x45
	withHeader = append(withHeader, reply...)
	assert.True(t, ParseEchoReplyV4(withHeader, 42, 3))
}

func TestBuildEchoRequestV6_PseudoHeaderChecksum(t *testing.T) {
	src := net.ParseIP("2001:db8::1")
	dst := net.ParseIP("2001:db8::2")
	pkt := BuildEchoRequestV6(src, dst, 0xABCD, 9)

	assert.Equal(t, byte(typeEchoRequestV6), pkt[0])

	ph := pseudoHeaderV6(src, dst, len(pkt))
	full := append(ph, pkt...)
	assert.Equal(t, uint16(0), checksum(full))
}

func TestParseEchoReplyV6_MatchesAndSkipsIPHeader(t *testing.T) {
	src := net.ParseIP("2001:db8::1")
	dst := net.ParseIP("2001:db8::2")
	req := BuildEchoRequestV6(src, dst, 5, 11)
	reply := append([]byte(nil), req...)
	reply[0] = typeEchoReplyV6

	assert.True(t, ParseEchoReplyV6(reply, 5, 11))
	assert.False(t, ParseEchoReplyV6(reply, 5, 12))

	withHeader := make([]byte, 40)
	withHeader[0] = 0x60
	withHeader = append(withHeader, reply...)
	assert.True(t, ParseEchoReplyV6(withHeader, 5, 11))
}

func TestNextSequence_Monotonic(t *testing.T) {
	a := NextSequence()
	b := NextSequence()
	assert.Equal(t, a+1, b)
}
