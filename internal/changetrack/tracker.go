// Package changetrack implements the ping-mode change-detection loop from
// spec.md §4.6: a fingerprint→(state, detail) map that classifies each
// cycle's results as first-pass, a state change, or a disappearance.
package changetrack

import "github.com/richyo-codes/pulse-scan-cpp/internal/model"

type entry struct {
	state  string
	detail string
}

// Tracker owns the fingerprint map across cycles. It is not safe for
// concurrent use — the change-tracking loop serializes access to it the
// same way the scan runner's shared queue is confined to one context.
type Tracker struct {
	last      map[model.FingerprintKey]entry
	firstPass bool
}

// New builds a Tracker starting on its first pass.
func New() *Tracker {
	return &Tracker{last: make(map[model.FingerprintKey]entry), firstPass: true}
}

// Observe compares (state, detail) against the last observed value for
// key. It reports whether the result should be emitted (it passed
// open-only filtering and either this is the first pass, the key is new,
// or the tuple changed) and whether it's a change (false only on the
// key's first-ever appearance during the first pass).
func (t *Tracker) Observe(key model.FingerprintKey, state, detail string, passesOpenOnly bool) (emit, isChange bool) {
	prev, existed := t.last[key]
	changed := !existed || prev.state != state || prev.detail != detail

	t.last[key] = entry{state: state, detail: detail}

	if !passesOpenOnly {
		return false, false
	}
	if !t.firstPass && !changed {
		return false, false
	}

	return true, !t.firstPass
}

// EndCycle removes every key absent from currentKeys (once past the first
// pass) and returns the keys that disappeared, for the caller to emit
// "unavailable" records for. It then clears the first-pass flag.
func (t *Tracker) EndCycle(currentKeys map[model.FingerprintKey]bool) []model.FingerprintKey {
	var gone []model.FingerprintKey

	if !t.firstPass {
		for key := range t.last {
			if !currentKeys[key] {
				gone = append(gone, key)
				delete(t.last, key)
			}
		}
	}

	t.firstPass = false
	return gone
}
