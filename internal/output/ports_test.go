package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
)

func TestTopPorts_ClampsToLimit(t *testing.T) {
	ports := output.TopPorts(output.TopPortsLimit() + 10)
	assert.Len(t, ports, output.TopPortsLimit())
}

func TestTopPorts_ReturnsPrefixInOrder(t *testing.T) {
	ports := output.TopPorts(3)
	assert.Equal(t, []int{20, 21, 22}, ports)
}

func TestTopPorts_ZeroOrNegativeIsEmpty(t *testing.T) {
	assert.Nil(t, output.TopPorts(0))
	assert.Nil(t, output.TopPorts(-5))
}

func TestDevPorts_NoDuplicates(t *testing.T) {
	seen := make(map[int]bool)
	for _, p := range output.DevPorts {
		assert.False(t, seen[p], "duplicate port %d", p)
		seen[p] = true
	}
}
