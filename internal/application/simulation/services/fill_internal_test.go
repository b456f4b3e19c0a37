package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiltrace/tanksim/internal/domain/cargo"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

func newFillTestEngine(t *testing.T, start shared.Instant, usablePerTank float64) *Engine {
	t.Helper()
	cfg := config.SimulationConfig{
		ProcessingRateBblDay:    24000,
		NumTanks:                3,
		HorizonDays:             2,
		UsablePerTank:           usablePerTank,
		SnapshotIntervalMinutes: 60,
		DischargeRateBblHr:      1000,
		CargoDefs:               map[string]float64{"VLCC": 2000000},
		InitialTankVolumes:      map[int]float64{2: 0},
	}
	eng, err := New(cfg, start, shared.NewRandomSource(1))
	require.NoError(t, err)
	return eng
}

func addManualCargo(e *Engine, vesselName string, berth int, volume float64, arrival shared.Instant) *cargo.Cargo {
	c := cargo.New(vesselName, cargo.TypeVLCC, "WTI", berth, volume, arrival, 0)
	e.cargos = append(e.cargos, c)
	e.cargoByName[vesselName] = c
	e.berths.Get(berth).Occupy(vesselName)
	return c
}

func TestMaybeStartFill_PrefersInitiallyEmptyTank(t *testing.T) {
	start := parseInstant(t, "01/01/2026 00:00")
	e := newFillTestEngine(t, start, 100000)
	addManualCargo(e, "VLCC-V001", 1, 50000, start)

	e.maybeStartFill(start)

	require.Contains(t, e.activeFills, "VLCC-V001")
	af := e.activeFills["VLCC-V001"]
	assert.Equal(t, 2, af.tankID)
	assert.Equal(t, 50000.0, af.volume)
	assert.Equal(t, tank.StateFilling, e.tanks[2].State)
	assert.Equal(t, 50000.0, e.tanks[2].Mix["WTI"])
	assert.Equal(t, start.AddHours(50), af.end)

	names := make([]string, 0)
	for _, rec := range e.recorder.Events() {
		names = append(names, rec.Name)
	}
	assert.Contains(t, names, "FILL_START_FIRST")
}

func TestMaybeFinishFill_PartialFillSuspendsTank(t *testing.T) {
	start := parseInstant(t, "01/01/2026 00:00")
	e := newFillTestEngine(t, start, 100000)
	c := addManualCargo(e, "VLCC-V001", 1, 50000, start)

	e.maybeStartFill(start)
	require.Contains(t, e.activeFills, "VLCC-V001")

	e.maybeFinishFill(start.AddHours(50))

	assert.Empty(t, e.activeFills)
	assert.Equal(t, tank.StateSuspended, e.tanks[2].State)
	assert.Equal(t, 0.0, c.RemainingVolume)
	assert.Equal(t, start.AddHours(50), c.DischargeEndAt)
	assert.Equal(t, "", e.berths.Get(1).CurrentCargo)
}

func TestMaybeFinishFill_FullFillBeginsSettling(t *testing.T) {
	start := parseInstant(t, "01/01/2026 00:00")
	e := newFillTestEngine(t, start, 50000)
	addManualCargo(e, "VLCC-V001", 1, 50000, start)

	e.maybeStartFill(start)
	require.Contains(t, e.activeFills, "VLCC-V001")

	e.maybeFinishFill(start.AddHours(50))

	assert.Empty(t, e.activeFills)
	assert.Equal(t, tank.StateSettling, e.tanks[2].State)
	assert.Equal(t, 50000.0, e.tanks[2].Volume)
	assert.InDelta(t, 100.0, e.tanks[2].MixPct["WTI"], 0.001)
}
