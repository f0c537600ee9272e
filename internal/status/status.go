// Package status tracks atomic progress counters so the signal handler's
// format call is safe regardless of which probe goroutine completed last.
package status

import (
	"fmt"
	"sync/atomic"
)

// Status holds the process-wide counters from spec.md §5.
type Status struct {
	totalTargets     atomic.Uint64
	completedTargets atomic.Uint64
	totalHosts       atomic.Uint64
	completedHosts   atomic.Uint64
	cycles           atomic.Uint64
}

func (s *Status) SetTotalTargets(n uint64)     { s.totalTargets.Store(n) }
func (s *Status) AddCompletedTargets(n uint64) { s.completedTargets.Add(n) }
func (s *Status) SetTotalHosts(n uint64)       { s.totalHosts.Store(n) }
func (s *Status) AddCompletedHosts(n uint64)   { s.completedHosts.Add(n) }
func (s *Status) IncCycles()                   { s.cycles.Add(1) }

// ResetProgress zeroes the per-cycle counters while keeping the cycle
// count, as the change-tracking loop does at the start of each sweep.
func (s *Status) ResetProgress() {
	s.completedTargets.Store(0)
	s.completedHosts.Store(0)
}

// String formats the status line, matching the original tool's
// "progress: targets D/T (P.P%), hosts D/T, cycles N" shape. The targets
// count is always printed; the percentage and the hosts clause appear only
// when their totals are nonzero, and the cycles clause only once a cycle
// has started.
func (s *Status) String() string {
	total := s.totalTargets.Load()
	done := s.completedTargets.Load()
	hostsTotal := s.totalHosts.Load()
	hostsDone := s.completedHosts.Load()
	cycles := s.cycles.Load()

	out := fmt.Sprintf("progress: targets %d/%d", done, total)
	if total > 0 {
		pct := float64(done) / float64(total) * 100
		out += fmt.Sprintf(" (%.1f%%)", pct)
	}
	if hostsTotal > 0 {
		out += fmt.Sprintf(", hosts %d/%d", hostsDone, hostsTotal)
	}
	if cycles > 0 {
		out += fmt.Sprintf(", cycles %d", cycles)
	}
	return out
}
