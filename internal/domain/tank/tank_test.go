package tank_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

func instant(t *testing.T, value string) shared.Instant {
	t.Helper()
	parsed, err := time.Parse("02/01/2006 15:04", value)
	require.NoError(t, err)
	return shared.NewInstant(parsed)
}

func TestNewTank_EmptyWhenGrossVolumeBelowUnusable(t *testing.T) {
	// Arrange + Act
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(1, 100000, 5000, 4000, start)

	// Assert
	assert.Equal(t, tank.StateEmpty, tk.State)
	assert.Equal(t, 0.0, tk.Volume)
}

func TestNewTank_ReadyWhenUsableVolumePositive(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(2, 100000, 5000, 80000, start)

	assert.Equal(t, tank.StateReady, tk.State)
	assert.Equal(t, 75000.0, tk.Volume)
}

func TestTank_StartFill_FirstFillTrueOncePerCycle(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(3, 100000, 5000, 0, start)
	require.Equal(t, tank.StateEmpty, tk.State)

	first, err := tk.StartFill(start, "WTI", 40000)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, tank.StateFilling, tk.State)
	assert.Equal(t, 40000.0, tk.Mix["WTI"])

	// Volume does not change until CompleteFill.
	assert.Equal(t, 0.0, tk.Volume)

	// A second fill within the same cycle is no longer "first".
	tk.State = tank.StateEmpty
	second, err := tk.StartFill(start, "WTI", 10000)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestTank_StartFill_RejectsIneligibleState(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(4, 100000, 5000, 80000, start)

	_, err := tk.StartFill(start, "WTI", 1000)
	assert.Error(t, err)
}

func TestTank_CompleteFill_ClampsAtUsableCapacity(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(5, 100000, 5000, 0, start)
	_, err := tk.StartFill(start, "WTI", 120000)
	require.NoError(t, err)

	full := tk.CompleteFill(120000)

	assert.True(t, full)
	assert.Equal(t, 100000.0, tk.Volume)
}

func TestTank_CompleteFill_NotFullBelowTolerance(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(6, 100000, 5000, 0, start)
	_, err := tk.StartFill(start, "WTI", 50000)
	require.NoError(t, err)

	full := tk.CompleteFill(50000)

	assert.False(t, full)
	assert.Equal(t, 50000.0, tk.Volume)
}

func TestTank_FreezeMixPct_ComputesSharesOfTotal(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(7, 100000, 5000, 0, start)
	tk.Mix = map[string]float64{"WTI": 75000, "BRENT": 25000}

	tk.FreezeMixPct()

	assert.InDelta(t, 75.0, tk.MixPct["WTI"], 0.001)
	assert.InDelta(t, 25.0, tk.MixPct["BRENT"], 0.001)
}

func TestTank_FreezeMixPct_EmptyMixYieldsNoPercentages(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(8, 100000, 5000, 0, start)
	tk.Mix = map[string]float64{}

	tk.FreezeMixPct()

	assert.Empty(t, tk.MixPct)
}

func TestTank_PromoteToReady_IncrementsCycleAndResetsMix(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(9, 100000, 5000, 0, start)
	tk.Mix = map[string]float64{"WTI": 100000}
	tk.MixPct = map[string]float64{"WTI": 100}
	require.Equal(t, 1, tk.CycleIndex)

	completedCycle := tk.PromoteToReady(start.AddHours(10))

	assert.Equal(t, 1, completedCycle)
	assert.Equal(t, 2, tk.CycleIndex)
	assert.Equal(t, tank.StateReady, tk.State)
	assert.Empty(t, tk.Mix)
	assert.Empty(t, tk.MixPct)
	assert.Equal(t, 100000.0, tk.Volume)
}

func TestTank_Consume_ClampsAtZero(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(10, 100000, 5000, 80000, start)
	tk.StartFeeding(start)

	tk.Consume(200000)

	assert.Equal(t, 0.0, tk.Volume)
}

func TestTank_Empty_ArmsReadyForFillTimer(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(11, 100000, 5000, 80000, start)
	tk.StartFeeding(start)
	tk.FirstFillDone = true

	emptyAt := start.AddHours(5)
	tk.Empty(emptyAt, 12)

	assert.Equal(t, tank.StateEmpty, tk.State)
	assert.False(t, tk.FirstFillDone)
	assert.Equal(t, emptyAt.AddHours(12), tk.ReadyForFillAt)
}

func TestTank_EligibleForFill_RespectsPreparationTimer(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(12, 100000, 5000, 80000, start)
	tk.StartFeeding(start)
	tk.Empty(start.AddHours(1), 12)

	assert.False(t, tk.EligibleForFill(start.AddHours(5)))
	assert.True(t, tk.EligibleForFill(start.AddHours(13)))
}

func TestTank_StateAt_BinarySearchFindsLastStateBeforeOrAt(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(13, 100000, 5000, 0, start)

	t1 := start.AddHours(1)
	t2 := start.AddHours(2)
	t3 := start.AddHours(3)
	tk.ChangeState(tank.StateFilling, t1)
	tk.ChangeState(tank.StateFilled, t2)
	tk.ChangeState(tank.StateSettling, t3)

	assert.Equal(t, tank.StateEmpty, tk.StateAt(start))
	assert.Equal(t, tank.StateEmpty, tk.StateAt(start.AddHours(0.5)))
	assert.Equal(t, tank.StateFilling, tk.StateAt(t1))
	assert.Equal(t, tank.StateFilled, tk.StateAt(t2.AddHours(0.5)))
	assert.Equal(t, tank.StateSettling, tk.StateAt(t3.AddHours(100)))
}

func TestTank_IsFull_WithinTolerance(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	tk := tank.NewTank(14, 100000, 5000, 0, start)
	_, err := tk.StartFill(start, "WTI", 99950)
	require.NoError(t, err)
	tk.CompleteFill(99950)

	assert.True(t, tk.IsFull())
}
