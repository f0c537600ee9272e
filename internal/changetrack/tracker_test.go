package changetrack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/changetrack"
	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

func TestObserve_FirstPassEmitsButIsNotAChange(t *testing.T) {
	tr := changetrack.New()
	key := model.PortKey("host", "1.2.3.4", 80)

	emit, isChange := tr.Observe(key, "open", "", true)
	assert.True(t, emit)
	assert.False(t, isChange)
}

func TestObserve_SecondPassSameStateDoesNotEmit(t *testing.T) {
	tr := changetrack.New()
	key := model.PortKey("host", "1.2.3.4", 80)

	tr.Observe(key, "open", "", true)
	tr.EndCycle(map[model.FingerprintKey]bool{key: true})

	emit, _ := tr.Observe(key, "open", "", true)
	assert.False(t, emit)
}

func TestObserve_StateChangeEmitsAsChange(t *testing.T) {
	tr := changetrack.New()
	key := model.PortKey("host", "1.2.3.4", 80)

	tr.Observe(key, "open", "", true)
	tr.EndCycle(map[model.FingerprintKey]bool{key: true})

	emit, isChange := tr.Observe(key, "closed", "", true)
	assert.True(t, emit)
	assert.True(t, isChange)
}

func TestObserve_FailingOpenOnlyNeverEmits(t *testing.T) {
	tr := changetrack.New()
	key := model.PortKey("host", "1.2.3.4", 80)

	emit, _ := tr.Observe(key, "closed", "", false)
	assert.False(t, emit)
}

func TestEndCycle_ReportsDisappearedKeysAfterFirstPass(t *testing.T) {
	tr := changetrack.New()
	key := model.PortKey("host", "1.2.3.4", 80)

	tr.Observe(key, "open", "", true)
	tr.EndCycle(map[model.FingerprintKey]bool{key: true})

	// Second cycle: key is absent from the current set.
	gone := tr.EndCycle(map[model.FingerprintKey]bool{})
	assert.Equal(t, []model.FingerprintKey{key}, gone)
}

func TestEndCycle_NoDisappearancesDuringFirstPass(t *testing.T) {
	tr := changetrack.New()
	key := model.PortKey("host", "1.2.3.4", 80)
	tr.Observe(key, "open", "", true)

	gone := tr.EndCycle(map[model.FingerprintKey]bool{})
	assert.Empty(t, gone)
}
