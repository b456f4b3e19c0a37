package services

import (
	"fmt"
	"sort"

	"github.com/oiltrace/tanksim/internal/domain/cargo"
	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

// nearFullTolerance mirrors the original's "current_volume < usable - 100"
// solver-mode eligibility check: a tank that's already almost full is not
// worth starting a new slice on.
const nearFullTolerance = 100.0

func minF(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// maybeStartFill starts at most one new tank fill per eligible cargo:
// in solver mode it walks the cargo's planned assignments for the
// first actionable, eligible target tank; in standard mode it picks
// the next eligible tank sequentially, preferring tanks that started
// the run empty.
func (e *Engine) maybeStartFill(now shared.Instant) {
	for _, c := range e.cargos {
		if c.RemainingVolume <= 1.0 {
			continue
		}
		if _, active := e.activeFills[c.VesselName]; active {
			continue
		}
		if c.DischargeStartAt.Zero() {
			if e.useSolverPlan {
				if !c.Dispatched || now.Before(c.FillStartAt) {
					continue
				}
			} else if now.Before(c.FillStartAt) {
				continue
			}
		}
		if !c.NextFillAvailableAt.Zero() && now.Before(c.NextFillAvailableAt) {
			continue
		}

		var tankID int
		var volumeToFill float64
		var ok bool

		if e.useSolverPlan {
			tankID, volumeToFill, ok = e.pickSolverTarget(now, c)
		} else {
			tankID, volumeToFill, ok = e.pickStandardTarget(now, c)
		}
		if !ok {
			continue
		}

		e.beginFill(now, c, tankID, volumeToFill)
	}
}

// pickSolverTarget walks c's plan assignments for the first actionable,
// currently-eligible tank, biasing but never forcing the selection.
func (e *Engine) pickSolverTarget(now shared.Instant, c *cargo.Cargo) (tankID int, volume float64, ok bool) {
	cargoID := e.cargoAssignID[c.VesselName]
	eligible := func(tid int) bool {
		t := e.tanks[tid]
		return t.EligibleForFill(now) && t.Volume < e.usable-nearFullTolerance
	}
	a := e.plan.NextTarget(cargoID, eligible)
	if a == nil {
		return 0, 0, false
	}
	t := e.tanks[a.TankID]
	spaceInTank := e.usable - t.Volume
	if spaceInTank < 0 {
		spaceInTank = 0
	}
	volume = minF(a.Remaining(), c.RemainingVolume, spaceInTank)
	if volume <= 1.0 {
		return 0, 0, false
	}
	a.FilledSoFar += volume
	return a.TankID, volume, true
}

// pickStandardTarget selects the next eligible tank sequentially,
// preferring tanks that started the run empty.
func (e *Engine) pickStandardTarget(now shared.Instant, c *cargo.Cargo) (tankID int, volume float64, ok bool) {
	for idx, id := range e.initiallyEmptyTanks {
		t := e.tanks[id]
		if (t.State == tank.StateEmpty || t.State == tank.StateSuspended) && t.EligibleForFill(now) {
			e.initiallyEmptyTanks = append(e.initiallyEmptyTanks[:idx], e.initiallyEmptyTanks[idx+1:]...)
			tankID = id
			break
		}
	}

	if tankID == 0 {
		skip := map[int]bool{}
		for _, id := range e.initiallyEmptyTanks {
			skip[id] = true
		}
		for i := 1; i <= e.N; i++ {
			if skip[i] {
				continue
			}
			t := e.tanks[i]
			if (t.State == tank.StateEmpty || t.State == tank.StateSuspended) && t.EligibleForFill(now) {
				tankID = i
				break
			}
		}
	}

	if tankID == 0 {
		return 0, 0, false
	}
	volume = minF(c.RemainingVolume, e.usable)
	return tankID, volume, true
}

// beginFill transitions the target tank to FILLING, reserves the crude
// blend, registers the cargo's active fill entry, and logs
// FILL_START_FIRST or FILL_START depending on whether this is the
// tank's first fill of its current cycle.
func (e *Engine) beginFill(now shared.Instant, c *cargo.Cargo, tankID int, volume float64) {
	t := e.tanks[tankID]
	first, err := t.StartFill(now, c.CrudeType, volume)
	if err != nil {
		return
	}

	c.RegisterFillStart(now)

	fillHours := volume / maxF(e.rateHour, 1e-6)
	end := now.AddHours(fillHours)
	e.activeFills[c.VesselName] = activeFill{tankID: tankID, end: end, volume: volume}

	name := event.NameFillStart
	if first {
		name = event.NameFillStartFirst
	}
	cycle := t.CycleIndex
	e.recorder.Log(event.Record{At: now, Level: event.LevelInfo, Name: name, TankID: intPtr(tankID),
		Cargo:      c.VesselName,
		CycleIndex: &cycle,
		Message:    fmt.Sprintf("BERTH %d: Start filling Tank %d with %.0f bbl %s", c.Berth, tankID, volume, c.CrudeType),
		States:     e.stateSnapshot(now)})
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// maybeFinishFill completes any active fills whose end time has passed:
// adds the filled volume to the tank, decides FILLED+SETTLING (full) vs
// SUSPENDED (partial), updates cargo bookkeeping, and releases the
// berth and triggers rescheduling once a cargo fully discharges.
func (e *Engine) maybeFinishFill(now shared.Instant) {
	vessels := make([]string, 0, len(e.activeFills))
	for vessel := range e.activeFills {
		vessels = append(vessels, vessel)
	}
	sort.Strings(vessels)

	for _, vessel := range vessels {
		af, ok := e.activeFills[vessel]
		if !ok {
			continue
		}
		if now.Before(af.end) {
			continue
		}
		c := e.cargoByName[vessel]
		t := e.tanks[af.tankID]

		full := t.CompleteFill(af.volume)

		remainingAfter := c.RemainingVolume - af.volume
		if remainingAfter < 0 {
			remainingAfter = 0
		}

		if full {
			cycle := t.CycleIndex
			t.ChangeState(tank.StateFilled, af.end)
			e.recorder.Log(event.Record{At: af.end, Level: event.LevelInfo, Name: event.NameFillFinalEnd,
				TankID: intPtr(af.tankID), Cargo: vessel, CycleIndex: &cycle,
				Message: fmt.Sprintf("Tank %d fill completed: added %.0f bbl (now %.0f bbl). Cargo remaining: %.0f bbl",
					af.tankID, af.volume, t.Volume+t.UnusablePerTank, remainingAfter),
				States: e.stateSnapshot(af.end)})

			t.FreezeMixPct()
			t.BeginSettling(af.end, e.settleHours, e.labHours)
			t.ChangeState(tank.StateSettling, af.end)

			e.recorder.Log(event.Record{At: af.end, Level: event.LevelInfo, Name: event.NameSettlingStart,
				TankID: intPtr(af.tankID), Cargo: vessel, CycleIndex: &cycle,
				Message: fmt.Sprintf("Tank %d FILLED FULL (%.0f bbl) - Settling for %.0f hours", af.tankID, t.Volume, e.settleHours),
				States:  e.stateSnapshot(af.end)})
		} else {
			e.recorder.Log(event.Record{At: af.end, Level: event.LevelInfo, Name: event.NameFillEnd,
				TankID: intPtr(af.tankID), Cargo: vessel,
				Message: fmt.Sprintf("Tank %d fill completed: added %.0f bbl (now %.0f bbl). Cargo remaining: %.0f bbl",
					af.tankID, af.volume, t.Volume+t.UnusablePerTank, remainingAfter),
				States: e.stateSnapshot(af.end)})
			t.Suspend(af.end, e.cfg.TankFillGapHours)
		}

		fillStart := af.end.AddHours(-af.volume / maxF(e.rateHour, 1e-6))
		finished := c.RegisterFillCompletion(af.tankID, fillStart, af.end, af.volume)
		delete(e.activeFills, vessel)

		if !finished && c.RemainingVolume > 1.0 {
			c.NextFillAvailableAt = af.end.AddHours(e.cfg.TankFillGapHours)
			if e.cfg.TankFillGapHours > 0 {
				e.recorder.Log(event.Record{At: af.end, Level: event.LevelInfo, Name: event.NameTankGapStart,
					TankID: intPtr(af.tankID), Cargo: vessel,
					Message: fmt.Sprintf("Tank %d complete. %s waiting for %.0fh gap.", af.tankID, vessel, e.cfg.TankFillGapHours),
					States:  e.stateSnapshot(af.end)})
			}
			e.maybeStartFill(af.end)
		}

		if finished {
			e.releaseBerth(c)
		}
	}
}
