package sandbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/sandbox"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "applied", sandbox.Applied.String())
	assert.Equal(t, "skipped", sandbox.Skipped.String())
	assert.Equal(t, "failed", sandbox.Failed.String())
	assert.Equal(t, "unknown", sandbox.Status(99).String())
}

func TestApply_ReturnsAKnownStatus(t *testing.T) {
	result := sandbox.Apply([]string{"example.com"})
	switch result.Status {
	case sandbox.Applied, sandbox.Skipped, sandbox.Failed:
	default:
		t.Fatalf("unexpected status %v", result.Status)
	}
}
