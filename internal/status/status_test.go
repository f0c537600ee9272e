package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/status"
)

func TestString_TargetsOnly(t *testing.T) {
	s := &status.Status{}
	s.SetTotalTargets(4)
	s.AddCompletedTargets(1)

	assert.Equal(t, "progress: targets 1/4 (25.0%)", s.String())
}

func TestString_WithHostsAndCycles(t *testing.T) {
	s := &status.Status{}
	s.SetTotalTargets(2)
	s.AddCompletedTargets(2)
	s.SetTotalHosts(1)
	s.AddCompletedHosts(1)
	s.IncCycles()
	s.IncCycles()

	assert.Equal(t, "progress: targets 2/2 (100.0%), hosts 1/1, cycles 2", s.String())
}

func TestString_NoTotalsOmitsPercentAndClauses(t *testing.T) {
	s := &status.Status{}
	assert.Equal(t, "progress: targets 0/0", s.String())
}

func TestResetProgress_KeepsCyclesClearsCounts(t *testing.T) {
	s := &status.Status{}
	s.AddCompletedTargets(5)
	s.AddCompletedHosts(3)
	s.IncCycles()

	s.ResetProgress()

	assert.Equal(t, "progress: targets 0/0, cycles 1", s.String())
}
