package services

import (
	"fmt"

	"github.com/oiltrace/tanksim/internal/domain/cargo"
	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

var standardCargoTypes = []string{"VLCC", "SUEZ", "AFRA", "PANA", "HANDY"}

// scheduleCargos admits at most one new cargo per call, delegating to
// the solver-mode or standard-mode policy depending on configuration.
func (e *Engine) scheduleCargos(now shared.Instant) {
	if e.useSolverPlan {
		e.scheduleCargosSolver(now)
	} else {
		e.scheduleCargosStandard(now)
	}
}

// scheduleCargosSolver dispatches pre-loaded solver cargos once their
// berth has been free for at least the configured random gap. Only one
// dispatch happens per call, in plan order.
func (e *Engine) scheduleCargosSolver(now shared.Instant) {
	for _, c := range e.cargos {
		if c.Dispatched {
			continue
		}
		b := e.berths.Get(c.Berth)
		randomGapHours := e.randomGapHours()
		earliestArrival := b.FreeAt.AddHours(randomGapHours)

		if b.CurrentCargo == "" && !now.Before(earliestArrival) {
			c.Dispatched = true
			b.Occupy(c.VesselName)
			c.ArrivalAt = earliestArrival
			c.FillStartAt = earliestArrival.AddHours(e.cfg.PreDischargeDays * 24.0)

			if !c.ArrivalLogged {
				e.recorder.Log(event.Record{At: earliestArrival, Level: event.LevelSuccess, Name: event.NameArrival,
					Cargo: c.VesselName,
					Message: fmt.Sprintf("BERTH %d CARGO ARRIVED. Fill starts at %s", c.Berth, c.FillStartAt.Format()),
					States:  e.stateSnapshot(earliestArrival)})
				c.ArrivalLogged = true
			}
			return
		}
	}
}

// scheduleCargosStandard picks a cargo type uniformly at random among
// enabled types and seats it at the first idle, ready berth, gating the
// very first cargo on a ready-tank band and subsequent ones on a
// minimum ready-tank count plus a predicted-next-empty heuristic.
func (e *Engine) scheduleCargosStandard(now shared.Instant) {
	for _, berthID := range e.berths.IDs() {
		b := e.berths.Get(berthID)
		if b.CurrentCargo != "" || b.FreeAt.After(now) {
			continue
		}

		randomGapHours := e.randomGapHours()
		readyCount := e.countState(tank.StateReady)

		var arrival shared.Instant
		if !e.firstCargoScheduled {
			if readyCount < e.cfg.FirstCargoMinReady || readyCount > e.cfg.FirstCargoMaxReady {
				continue
			}
			e.firstCargoScheduled = true
			arrival = now.AddHours(randomGapHours)
		} else {
			if readyCount < e.cfg.MinReadyTanks {
				continue
			}
			if hours, ok := e.EstimatedHoursUntilNextEmpty(); ok {
				arrival = now.AddHours(hours - 18.0)
				floor := b.FreeAt.AddHours(randomGapHours)
				if arrival.Before(floor) {
					arrival = floor
				}
			} else {
				arrival = b.FreeAt.AddHours(randomGapHours)
			}
		}

		available := e.availableCargoTypes()
		if len(available) == 0 {
			continue
		}
		cargoType := available[e.random.Intn(len(available))]

		e.cargoCounter[cargoType]++
		vesselName := fmt.Sprintf("%s-V%03d", cargoType, e.cargoCounter[cargoType])

		volume := e.enabledCargos[cargoType]
		c := cargo.New(vesselName, cargo.Type(cargoType), cargoType, berthID, volume, arrival, e.cfg.PreDischargeDays*24.0)
		e.cargos = append(e.cargos, c)
		e.cargoByName[vesselName] = c
		b.Occupy(vesselName)

		e.recorder.Log(event.Record{At: arrival, Level: event.LevelSuccess, Name: event.NameArrival,
			Cargo:   vesselName,
			Message: fmt.Sprintf("BERTH %d: %s arrives. Volume: %.0f bbl", berthID, vesselName, volume),
			States:  e.stateSnapshot(arrival)})
		return
	}
}

func (e *Engine) availableCargoTypes() []string {
	var out []string
	for _, ct := range standardCargoTypes {
		if v, ok := e.enabledCargos[ct]; ok && v > 0 {
			out = append(out, ct)
		}
	}
	return out
}

func (e *Engine) randomGapHours() float64 {
	lo, hi := e.cfg.BerthGapHoursMin, e.cfg.BerthGapHoursMax
	if hi <= lo {
		return lo
	}
	return lo + e.random.Float64()*(hi-lo)
}

// releaseBerth frees a cargo's berth at its discharge-end instant and
// immediately runs a fresh schedule check for that instant.
func (e *Engine) releaseBerth(c *cargo.Cargo) {
	b := e.berths.Get(c.Berth)
	b.Release(c.DischargeEndAt)
	e.recorder.Log(event.Record{At: c.DischargeEndAt, Level: event.LevelSuccess, Name: event.NameDischargeComplete,
		Cargo:   c.VesselName,
		Message: fmt.Sprintf("BERTH %d: %s completed discharge of %.0f bbl - BERTH %d AVAILABLE", c.Berth, c.VesselName, c.VolumeTotal, c.Berth),
		States:  e.stateSnapshot(c.DischargeEndAt)})
	e.scheduleCargos(c.DischargeEndAt)
}
