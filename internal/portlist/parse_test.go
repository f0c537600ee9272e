package portlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richyo-codes/pulse-scan-cpp/internal/portlist"
)

func TestParse_Mixed(t *testing.T) {
	ports, err := portlist.Parse("22,80,8000-8002")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 80, 8000, 8001, 8002}, ports)
}

func TestParse_SwapsReversedRange(t *testing.T) {
	ports, err := portlist.Parse("10-8")
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10}, ports)
}

func TestParse_SkipsEmptyTokens(t *testing.T) {
	ports, err := portlist.Parse("22,,80,")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 80}, ports)
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := portlist.Parse("22,abc")
	assert.Error(t, err)
}

func TestParse_RejectsGarbageRange(t *testing.T) {
	_, err := portlist.Parse("1-abc")
	assert.Error(t, err)
}
