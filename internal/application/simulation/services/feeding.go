package services

import (
	"fmt"

	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

// findNextReadySequential scans tanks in round-robin order starting
// right after startFrom, returning the first READY tank found.
func (e *Engine) findNextReadySequential(startFrom int) (int, bool) {
	for offset := 1; offset <= e.N; offset++ {
		id := ((startFrom-1+offset)%e.N)+1
		if e.tanks[id].State == tank.StateReady {
			return id, true
		}
	}
	return 0, false
}

// ensureFeeding makes sure exactly one tank is FEEDING, selecting the
// next READY tank sequentially when the current active tank is not
// feeding (either because none was ever chosen, or it just emptied).
func (e *Engine) ensureFeeding(now shared.Instant) {
	if e.active != 0 && e.tanks[e.active].State == tank.StateFeeding {
		return
	}

	nxt, ok := e.findNextReadySequential(e.active)
	if !ok {
		e.logHaltOnce(now)
		return
	}

	wasHalted := e.haltLogged
	e.active = nxt
	e.tanks[nxt].StartFeeding(now)

	if wasHalted {
		e.recorder.Log(event.Record{At: now, Level: event.LevelSuccess, Name: event.NameProcessingResume,
			Message: "Processing resumed after halt", States: e.stateSnapshot(now)})
		e.haltLogged = false
	}

	e.recorder.Log(event.Record{At: now, Level: event.LevelSuccess, Name: event.NameFeedStart,
		TankID: intPtr(nxt), Message: fmt.Sprintf("Tank %d now starts feeding with %.0f bbl available", nxt, e.tanks[nxt].Volume),
		States: e.stateSnapshot(now)})
}

func (e *Engine) logHaltOnce(now shared.Instant) {
	e.active = 0
	if e.haltLogged {
		return
	}
	ready := e.countState(tank.StateReady)
	e.recorder.Log(event.Record{At: now, Level: event.LevelDanger, Name: event.NameProcessingHalt,
		Message: fmt.Sprintf("Processing stopped - no READY tanks available (READY: %d)", ready),
		States:  e.stateSnapshot(now)})
	e.haltLogged = true
}

// consumeHour processes the currently feeding tank at the fixed hourly
// rate across [now, hourEnd], handing over to the next READY tank (and
// continuing consumption within the same interval) if the tank runs
// dry partway through. Returns the total volume processed.
func (e *Engine) consumeHour(now, hourEnd shared.Instant) float64 {
	processed := 0.0

	if e.active == 0 || e.tanks[e.active].State != tank.StateFeeding {
		return processed
	}
	rate := e.rateDay / 24.0
	if rate <= 0 {
		return processed
	}

	t := e.tanks[e.active]
	available := t.Volume
	if available <= 0 {
		t.Empty(now, e.cfg.TankGapHours)
		e.recorder.Log(event.Record{At: now, Level: event.LevelWarning, Name: "FEED_ERROR",
			TankID: intPtr(e.active),
			Message: fmt.Sprintf("Tank %d marked as FEEDING but has no usable volume", e.active),
			States:  e.stateSnapshot(now)})
		e.active = 0
		return processed
	}

	hourLengthH := hourEnd.Sub(now).Hours()
	timeToEmptyH := available / rate

	if timeToEmptyH > hourLengthH {
		take := rate * hourLengthH
		t.Consume(take)
		return take
	}

	tEmpty := now.AddHours(timeToEmptyH)
	take := available
	t.Consume(take)
	processed += take
	emptiedTank := e.active

	delete(e.tankFilledFirst, emptiedTank)
	t.Empty(tEmpty, e.cfg.TankGapHours)

	e.recorder.Log(event.Record{At: tEmpty, Level: event.LevelWarning, Name: event.NameTankEmpty,
		TankID: intPtr(emptiedTank), Message: fmt.Sprintf("Tank %d emptied. Total draw %.0f bbl.", emptiedTank, take),
		States: e.stateSnapshot(tEmpty)})

	if e.cfg.TankGapHours > 0 {
		e.recorder.Log(event.Record{At: tEmpty, Level: event.LevelInfo, Name: event.NameEmptyStart,
			TankID: intPtr(emptiedTank),
			Message: fmt.Sprintf("Tank %d emptied. Preparation time of %.0fh required.", emptiedTank, e.cfg.TankGapHours),
			States:  e.stateSnapshot(tEmpty)})
	}

	nxt, ok := e.findNextReadySequential(emptiedTank)
	if !ok {
		e.logHaltOnce(tEmpty)
		return processed
	}

	wasHalted := e.haltLogged
	e.active = nxt
	e.tanks[nxt].StartFeeding(tEmpty)

	if wasHalted {
		e.recorder.Log(event.Record{At: tEmpty, Level: event.LevelSuccess, Name: event.NameProcessingResume,
			Message: "Processing resumed after halt", States: e.stateSnapshot(tEmpty)})
		e.haltLogged = false
	}

	e.recorder.Log(event.Record{At: tEmpty, Level: event.LevelSuccess, Name: event.NameFeedChangeover,
		TankID: intPtr(nxt), Message: fmt.Sprintf("Tank %d starts feeding with %.0f bbl", nxt, e.tanks[nxt].Volume),
		States: e.stateSnapshot(tEmpty)})

	remainingHour := hourLengthH - timeToEmptyH
	if remainingHour > 0 && e.tanks[nxt].Volume > 0 {
		additional := rate * remainingHour
		if additional > e.tanks[nxt].Volume {
			additional = e.tanks[nxt].Volume
		}
		e.tanks[nxt].Consume(additional)
		processed += additional
	}

	return processed
}

// EstimatedHoursUntilNextEmpty replicates the original's closed-form
// projection: hours remaining on the currently feeding tank, plus one
// full usable/rate block for each currently-READY tank, treating each
// as if it will be consumed fully in sequence. It is not a lookahead
// simulation of actual future arrivals/fills.
func (e *Engine) EstimatedHoursUntilNextEmpty() (float64, bool) {
	rate := e.rateDay / 24.0
	if rate <= 0 {
		return 0, false
	}
	total := 0.0
	found := false
	if e.active != 0 && e.tanks[e.active].State == tank.StateFeeding {
		total += e.tanks[e.active].Volume / rate
		found = true
	}
	for i := 1; i <= e.N; i++ {
		if e.tanks[i].State == tank.StateReady {
			total += e.usable / rate
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return total, true
}
