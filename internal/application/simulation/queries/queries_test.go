package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiltrace/tanksim/internal/application/simulation/queries"
	"github.com/oiltrace/tanksim/internal/application/simulation/services"
	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

func instant(t *testing.T, value string) shared.Instant {
	t.Helper()
	parsed, err := time.Parse("02/01/2006 15:04", value)
	require.NoError(t, err)
	return shared.NewInstant(parsed)
}

func baseConfig() config.SimulationConfig {
	return config.SimulationConfig{
		ProcessingRateBblDay:    24000,
		NumTanks:                3,
		HorizonDays:             2,
		UsablePerTank:           100000,
		SnapshotIntervalMinutes: 60,
		DischargeRateBblHr:      1000,
		CargoDefs:               map[string]float64{"VLCC": 2000000},
		TankGapHours:            12,
	}
}

func newTestEngine(t *testing.T) *services.Engine {
	t.Helper()
	start := instant(t, "01/01/2026 00:00")
	eng, err := services.New(baseConfig(), start, shared.NewRandomSource(1))
	require.NoError(t, err)
	return eng
}

func TestGetEventLogHandler_ReturnsBootstrapEvents(t *testing.T) {
	eng := newTestEngine(t)
	h := queries.NewGetEventLogHandler()

	resp, err := h.Handle(context.Background(), queries.GetEventLogQuery{Engine: eng})

	require.NoError(t, err)
	result, ok := resp.(queries.GetEventLogResult)
	require.True(t, ok)
	names := make([]string, 0, len(result.Events))
	for _, rec := range result.Events {
		names = append(names, rec.Name)
	}
	assert.Contains(t, names, "SIM_START")
	assert.Contains(t, names, "FEED_START")
}

func TestGetEventLogHandler_RejectsWrongRequestType(t *testing.T) {
	h := queries.NewGetEventLogHandler()

	_, err := h.Handle(context.Background(), queries.GetDailySummaryQuery{})

	assert.Error(t, err)
}

func TestGetDailySummaryHandler_ProjectsRecordedRows(t *testing.T) {
	eng := newTestEngine(t)
	day := instant(t, "01/01/2026 00:00")
	eng.Recorder().DailySummary(event.DailySummaryRow{
		Date:              day,
		OpeningGrossStock: 300000,
		ClosingGrossStock: 276000,
		ReadyTanks:        2,
		EmptyTanks:        0,
	})
	h := queries.NewGetDailySummaryHandler()

	resp, err := h.Handle(context.Background(), queries.GetDailySummaryQuery{Engine: eng})

	require.NoError(t, err)
	result, ok := resp.(queries.GetDailySummaryResult)
	require.True(t, ok)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 2, result.Rows[0].ReadyTanks)
	assert.Equal(t, 276000.0, result.Rows[0].ClosingGrossStock)
}

func TestGetTankSnapshotsHandler_ProjectsRecordedSnapshots(t *testing.T) {
	eng := newTestEngine(t)
	at := instant(t, "01/01/2026 06:00")
	eng.Recorder().Snapshot(event.Snapshot{
		At:      at,
		Volumes: map[int]float64{1: 6000, 2: 0, 3: 0},
		States:  map[int]string{1: "FEEDING", 2: "READY", 3: "READY"},
	})
	h := queries.NewGetTankSnapshotsHandler()

	resp, err := h.Handle(context.Background(), queries.GetTankSnapshotsQuery{Engine: eng})

	require.NoError(t, err)
	result, ok := resp.(queries.GetTankSnapshotsResult)
	require.True(t, ok)
	require.Len(t, result.Snapshots, 1)
	assert.Equal(t, 6000.0, result.Snapshots[0].Volumes[1])
	assert.Equal(t, "FEEDING", result.Snapshots[0].States[1])
}

func TestGetCargoReportHandler_EmptyEngineYieldsNoRows(t *testing.T) {
	eng := newTestEngine(t)
	h := queries.NewGetCargoReportHandler()

	resp, err := h.Handle(context.Background(), queries.GetCargoReportQuery{Engine: eng})

	require.NoError(t, err)
	result, ok := resp.(queries.GetCargoReportResult)
	require.True(t, ok)
	assert.Empty(t, result.Rows)
}

func TestGetCargoReportHandler_ReflectsFullRunDischarge(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	cfg := config.SimulationConfig{
		ProcessingRateBblDay:    24000,
		NumTanks:                2,
		HorizonDays:             1.7,
		UsablePerTank:           24000,
		SnapshotIntervalMinutes: 60,
		DischargeRateBblHr:      2000,
		CargoDefs:               map[string]float64{"VLCC": 24000},
		FirstCargoMinReady:      1,
		FirstCargoMaxReady:      1,
	}
	eng, err := services.New(cfg, start, shared.NewRandomSource(1))
	require.NoError(t, err)

	require.NoError(t, services.NewDriver(eng).Run())

	h := queries.NewGetCargoReportHandler()
	resp, err := h.Handle(context.Background(), queries.GetCargoReportQuery{Engine: eng})

	require.NoError(t, err)
	result, ok := resp.(queries.GetCargoReportResult)
	require.True(t, ok)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "VLCC-V001", row.VesselName)
	assert.False(t, row.BerthGapKnown)
	assert.Equal(t, 24000.0, row.TotalVolumeDischarged)
	assert.Equal(t, 1.0, row.TanksFilled)
	// One tank's worth of discharge always takes exactly volume/rate
	// hours, regardless of which tick the fill happened to start on.
	assert.InDelta(t, 12.0, row.DischargeDurationHours, 0.001)
}
