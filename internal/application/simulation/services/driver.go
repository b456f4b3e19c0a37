package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

// Driver advances an Engine across its configured horizon, one
// snapshot-interval tick at a time, within a once-per-day outer loop
// that opens and closes each simulated day with a status event.
type Driver struct {
	engine *Engine
}

// NewDriver wraps an engine for stepped execution.
func NewDriver(e *Engine) *Driver {
	return &Driver{engine: e}
}

// Run executes the full horizon, day by day, stopping early if the
// engine becomes infeasible.
func (d *Driver) Run() error {
	e := d.engine
	if e.infeasible {
		return shared.NewInfeasibleError(e.infeasibleReason)
	}

	maxDays := int(math.Ceil(e.horizonDays))
	for day := 0; day < maxDays; day++ {
		dayStart := e.start.AddHours(24 * float64(day))
		if !dayStart.Before(e.start.AddHours(24 * e.horizonDays)) {
			break
		}
		d.simulateDay(day, dayStart)
		if e.infeasible {
			return shared.NewInfeasibleError(e.infeasibleReason)
		}
	}
	return nil
}

// simulateDay runs one simulated day's opening status, arrival
// scheduling, inner tick loop, and closing status — the day-boundary
// sub-cycle described by the driver's control flow.
func (d *Driver) simulateDay(dayIndex int, dayStart shared.Instant) {
	e := d.engine

	simulationEnd := e.start.AddHours(24 * e.horizonDays)
	dayEnd := dayStart.AddHours(24)
	if dayEnd.After(simulationEnd) {
		dayEnd = simulationEnd
	}

	e.promoteReadyTanks(dayStart)

	readyStart := e.countState(tank.StateReady)
	readyStock := 0.0
	for i := 1; i <= e.N; i++ {
		if e.tanks[i].State == tank.StateReady {
			readyStock += e.tanks[i].Volume
		}
	}
	feedingStock := 0.0
	var feedingDetail []string
	for i := 1; i <= e.N; i++ {
		if e.tanks[i].State == tank.StateFeeding {
			feedingStock += e.tanks[i].Volume
			feedingDetail = append(feedingDetail, fmt.Sprintf("Tank %d: %.0f bbl", i, e.tanks[i].Volume))
		}
	}
	certifiedStock := readyStock + feedingStock

	trueOpeningStock := 0.0
	for i := 1; i <= e.N; i++ {
		trueOpeningStock += e.tanks[i].Volume
	}

	feedingStr := "None"
	if len(feedingDetail) > 0 {
		feedingStr = strings.Join(feedingDetail, ", ")
	}

	e.recorder.Log(event.Record{At: dayStart, Level: event.LevelInfo, Name: event.NameDailyStatus,
		Message: fmt.Sprintf("Day starts - STOCK: READY TANKS (%d): %.0f bbl, FEEDING TANKS: %s, TOTAL: %.0f bbl",
			readyStart, readyStock, feedingStr, certifiedStock),
		States: e.stateSnapshot(dayStart)})

	e.scheduleCargos(dayStart)

	totalProcessedToday := 0.0
	now := dayStart
	snapshotInterval := time.Duration(e.cfg.SnapshotIntervalMinutes) * time.Minute
	nextSnapshot := dayStart

	for now.Before(dayEnd) {
		if !now.Before(simulationEnd) {
			break
		}

		if !now.Before(nextSnapshot) {
			d.logSnapshot(now)
			nextSnapshot = nextSnapshot.Add(snapshotInterval)
		}

		e.promoteReadyTanks(now)
		e.maybeFinishFill(now)
		e.ensureFeeding(now)
		e.maybeStartFill(now)

		stepEnd := minInstant(dayEnd, now.Add(snapshotInterval))
		if stepEnd.After(simulationEnd) {
			stepEnd = simulationEnd
		}
		if !now.Before(stepEnd) {
			break
		}

		totalProcessedToday += e.consumeHour(now, stepEnd)
		now = stepEnd

		e.maybeFinishFill(now)
		e.promoteReadyTanks(now)
	}

	readyEnd := e.countState(tank.StateReady)
	emptyEnd := e.countState(tank.StateEmpty)

	trueClosingStock := 0.0
	for i := 1; i <= e.N; i++ {
		trueClosingStock += e.tanks[i].Volume
	}

	logTimestamp := dayEnd
	if now.Before(dayEnd) {
		logTimestamp = now
	}
	e.recorder.Log(event.Record{At: logTimestamp, Level: event.LevelInfo, Name: event.NameDailyEnd,
		Message: fmt.Sprintf("Day ends with %d READY tanks, Processed: %.0f bbl", readyEnd, totalProcessedToday),
		States:  e.stateSnapshot(logTimestamp)})

	tankStates := make(map[int]string, e.N)
	for i := 1; i <= e.N; i++ {
		tankStates[i] = string(e.tanks[i].State)
	}

	e.recorder.DailySummary(event.DailySummaryRow{
		Date:                dayStart,
		OpeningGrossStock:   trueOpeningStock,
		OpeningCertifiedStk: certifiedStock,
		OpeningUncertStk:    trueOpeningStock - certifiedStock,
		ProcessedVolume:     totalProcessedToday,
		ClosingGrossStock:   trueClosingStock,
		ReadyTanks:          readyEnd,
		EmptyTanks:          emptyEnd,
		TankStates:          tankStates,
	})
}

func (d *Driver) logSnapshot(now shared.Instant) {
	e := d.engine
	volumes := make(map[int]float64, e.N)
	states := make(map[int]string, e.N)
	for i := 1; i <= e.N; i++ {
		volumes[i] = e.tanks[i].Volume
		states[i] = string(e.tanks[i].State)
	}
	e.recorder.Snapshot(event.Snapshot{At: now, Volumes: volumes, States: states})
}

func minInstant(a, b shared.Instant) shared.Instant {
	if a.Before(b) {
		return a
	}
	return b
}
