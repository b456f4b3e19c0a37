package berth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiltrace/tanksim/internal/domain/berth"
	"github.com/oiltrace/tanksim/internal/domain/shared"
)

func instant(t *testing.T, value string) shared.Instant {
	t.Helper()
	parsed, err := time.Parse("02/01/2006 15:04", value)
	require.NoError(t, err)
	return shared.NewInstant(parsed)
}

func TestNewTable_BothBerthsFreeFromStart(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	table := berth.NewTable(start)

	assert.ElementsMatch(t, []int{1, 2}, table.IDs())
	for _, id := range table.IDs() {
		assert.True(t, table.Get(id).Idle(start))
	}
}

func TestBerth_Occupy_NoLongerIdle(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	table := berth.NewTable(start)
	b := table.Get(1)

	b.Occupy("VLCC-V001")

	assert.False(t, b.Idle(start))
	assert.Equal(t, "VLCC-V001", b.CurrentCargo)
}

func TestBerth_Release_IdleOnlyAtOrAfterFreeAt(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	table := berth.NewTable(start)
	b := table.Get(1)
	b.Occupy("VLCC-V001")

	releaseAt := start.AddHours(40)
	b.Release(releaseAt)

	assert.False(t, b.Idle(start.AddHours(20)))
	assert.True(t, b.Idle(releaseAt))
	assert.True(t, b.Idle(releaseAt.AddHours(1)))
}
