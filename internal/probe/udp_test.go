package probe_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/probe"
)

func TestUDP_ReplyIsOpen(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()

	go func() {
		buf := make([]byte, 2048)
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		_ = n
		conn.WriteToUDP([]byte("pong"), raddr)
	}()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	result := probe.UDP(context.Background(), "127.0.0.1", port, time.Second)
	assert.Equal(t, model.StateOpen, result.State)
}

func TestUDP_NoResponseIsOpenOrFiltered(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()
	go func() {
		buf := make([]byte, 2048)
		conn.ReadFromUDP(buf) // read and discard, never reply
	}()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	result := probe.UDP(context.Background(), "127.0.0.1", port, 50*time.Millisecond)
	assert.Equal(t, model.StateOpenOrFiltered, result.State)
}
