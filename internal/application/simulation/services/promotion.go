package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

// promoteReadyTanks advances SETTLING tanks to LAB (or directly to
// READY if no lab testing is configured) and LAB tanks to READY, once
// their respective timers have elapsed. Dependent state changes are
// recorded one second after the logged instant, preserving log-then-
// transition ordering under a stable sort on tied timestamps.
func (e *Engine) promoteReadyTanks(now shared.Instant) int {
	promoted := 0
	for i := 1; i <= e.N; i++ {
		t := e.tanks[i]

		switch t.State {
		case tank.StateSettling:
			if t.SettleEndAt.Zero() || now.Before(t.SettleEndAt) {
				continue
			}
			settleEnd := t.SettleEndAt

			if e.labHours > 0 && !t.LabStartAt.Zero() && !now.Before(t.LabStartAt) {
				labEnd := t.ReadyAt
				e.recorder.Log(event.Record{At: settleEnd, Level: event.LevelInfo, Name: event.NameSettlingEnd,
					TankID: intPtr(i),
					Message: fmt.Sprintf("Settling ends. Lab testing starts for %.0f hours (ready at %s)", e.labHours, labEnd.Format()),
					States:  e.stateSnapshot(settleEnd)})
				t.PromoteToLab(settleEnd.AddSeconds(1))
			} else if e.labHours <= 0 {
				if t.ReadyAt.Zero() || now.Before(t.ReadyAt) {
					continue
				}
				readyTime := t.ReadyAt
				e.recorder.Log(event.Record{At: settleEnd, Level: event.LevelInfo, Name: event.NameSettlingEnd,
					TankID: intPtr(i), Message: "Settling ends", States: e.stateSnapshot(settleEnd)})
				e.logReadyAndPromote(i, readyTime)
				promoted++
			}

		case tank.StateLab:
			if t.ReadyAt.Zero() || now.Before(t.ReadyAt) {
				continue
			}
			readyTime := t.ReadyAt
			e.logReadyAndPromote(i, readyTime)
			promoted++
		}
	}
	return promoted
}

func (e *Engine) logReadyAndPromote(tankID int, readyTime shared.Instant) {
	t := e.tanks[tankID]
	mixStr := mixPctString(t.MixPct)
	cycle := t.CycleIndex
	e.recorder.Log(event.Record{At: readyTime, Level: event.LevelSuccess, Name: event.NameReady,
		TankID: intPtr(tankID), CycleIndex: &cycle,
		Message: fmt.Sprintf("Tank %d now READY - Mix: [%s]", tankID, mixStr),
		States:  e.stateSnapshot(readyTime)})
	t.PromoteToReady(readyTime.AddSeconds(1))
}

func mixPctString(mixPct map[string]float64) string {
	if len(mixPct) == 0 {
		return "Unknown"
	}
	crudes := make([]string, 0, len(mixPct))
	for crude := range mixPct {
		crudes = append(crudes, crude)
	}
	sort.Strings(crudes)

	parts := make([]string, 0, len(crudes))
	for _, crude := range crudes {
		parts = append(parts, fmt.Sprintf("%s: %.1f%%", crude, mixPct[crude]))
	}
	return strings.Join(parts, ", ")
}
