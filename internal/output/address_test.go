package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
)

func TestFormatAddressWithReverse_NoEntry(t *testing.T) {
	assert.Equal(t, "10.0.0.1", output.FormatAddressWithReverse("10.0.0.1", nil))
}

func TestFormatAddressWithReverse_WithEntry(t *testing.T) {
	rm := output.ReverseMap{"10.0.0.1": "host.example.com"}
	assert.Equal(t, "10.0.0.1 (host.example.com)", output.FormatAddressWithReverse("10.0.0.1", rm))
}

func TestReverseFor_NilMapIsEmpty(t *testing.T) {
	var rm output.ReverseMap
	assert.Equal(t, "", rm.ReverseFor("anything"))
}
