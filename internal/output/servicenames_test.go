package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
)

func TestServiceName_TCPKnownPort(t *testing.T) {
	assert.Equal(t, "https", output.ServiceName(443, model.ModeTCPConnect))
}

func TestServiceName_UDPKnownPort(t *testing.T) {
	assert.Equal(t, "ntp", output.ServiceName(123, model.ModeUDP))
}

func TestServiceName_UnknownPortFallsBack(t *testing.T) {
	assert.Equal(t, "unknown", output.ServiceName(59999, model.ModeTCPConnect))
}

func TestServiceName_TCPAndUDPTablesAreDistinct(t *testing.T) {
	// Port 53 means "domain" under both tables, but 123 is NTP only
	// under UDP and has no TCP entry.
	assert.Equal(t, "unknown", output.ServiceName(123, model.ModeTCPConnect))
}
