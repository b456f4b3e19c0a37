package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiltrace/tanksim/internal/application/simulation/commands"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

func instant(t *testing.T, value string) shared.Instant {
	t.Helper()
	parsed, err := time.Parse("02/01/2006 15:04", value)
	require.NoError(t, err)
	return shared.NewInstant(parsed)
}

func smallConfig() config.SimulationConfig {
	return config.SimulationConfig{
		ProcessingRateBblDay:    24000,
		NumTanks:                3,
		HorizonDays:             1,
		UsablePerTank:           100000,
		SnapshotIntervalMinutes: 120,
		DischargeRateBblHr:      1000,
		CargoDefs:               map[string]float64{"VLCC": 2000000},
		TankGapHours:            12,
	}
}

func TestRunSimulationHandler_RunsToCompletionAndReturnsEngine(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	seed := int64(7)
	h := commands.NewRunSimulationHandler()

	resp, err := h.Handle(context.Background(), commands.RunSimulationCommand{
		Config: smallConfig(), StartTime: start, Seed: &seed,
	})

	require.NoError(t, err)
	result, ok := resp.(commands.RunSimulationResult)
	require.True(t, ok)
	require.NotNil(t, result.Engine)

	names := make([]string, 0)
	for _, rec := range result.Engine.Recorder().Events() {
		names = append(names, rec.Name)
	}
	assert.Contains(t, names, "SIM_START")
}

func TestRunSimulationHandler_RejectsWrongRequestType(t *testing.T) {
	h := commands.NewRunSimulationHandler()

	_, err := h.Handle(context.Background(), struct{}{})

	assert.Error(t, err)
}

func TestRunSimulationHandler_PropagatesEngineConstructionError(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	cfg := smallConfig()
	cfg.NumTanks = 0
	h := commands.NewRunSimulationHandler()

	_, err := h.Handle(context.Background(), commands.RunSimulationCommand{Config: cfg, StartTime: start})

	assert.Error(t, err)
}

func TestRunSimulationHandler_NilSeedIsDeterministicFromConfig(t *testing.T) {
	start := instant(t, "01/01/2026 00:00")
	h := commands.NewRunSimulationHandler()

	respA, errA := h.Handle(context.Background(), commands.RunSimulationCommand{Config: smallConfig(), StartTime: start})
	respB, errB := h.Handle(context.Background(), commands.RunSimulationCommand{Config: smallConfig(), StartTime: start})

	require.NoError(t, errA)
	require.NoError(t, errB)
	resultA := respA.(commands.RunSimulationResult)
	resultB := respB.(commands.RunSimulationResult)

	eventsA := resultA.Engine.Recorder().Events()
	eventsB := resultB.Engine.Recorder().Events()
	require.Equal(t, len(eventsA), len(eventsB))
	for i := range eventsA {
		assert.Equal(t, eventsA[i].Name, eventsB[i].Name)
		assert.Equal(t, eventsA[i].Message, eventsB[i].Message)
	}
}
