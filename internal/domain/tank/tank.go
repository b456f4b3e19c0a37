// Package tank implements the per-tank state machine: timed transitions
// between EMPTY/SUSPENDED, FILLING, FILLED, SETTLING, LAB, READY, and
// FEEDING, plus an append-only state history queried by binary search.
package tank

import (
	"sort"

	"github.com/oiltrace/tanksim/internal/domain/shared"
)

// FullTankTolerance is the gross-volume slack treated as "full", since
// repeated float addition across many partial fills never lands exactly
// on capacity.
const FullTankTolerance = 100.0

type stateChange struct {
	At    shared.Instant
	State State
}

// Tank is a single tank farm tank, identified by a 1..N integer ID.
type Tank struct {
	ID int

	State           State
	Volume          float64 // usable barrels currently held
	UsableCapacity  float64
	UnusablePerTank float64

	CycleIndex    int
	FirstFillDone bool

	Mix    map[string]float64 // crude name -> barrels contributed this cycle
	MixPct map[string]float64 // frozen at FILL_FINAL_END

	SettleEndAt     shared.Instant
	LabStartAt      shared.Instant
	ReadyAt         shared.Instant
	ReadyForFillAt  shared.Instant
	FeedStartVolume float64
	FeedStartTime   shared.Instant

	history []stateChange
}

// NewTank builds a tank from a configured gross initial volume, deriving
// the usable-only starting volume and initial state (EMPTY if the usable
// remainder is non-positive, READY otherwise).
func NewTank(id int, usableCapacity, unusablePerTank, initialGrossVolume float64, now shared.Instant) *Tank {
	usable := initialGrossVolume - unusablePerTank
	if usable < 0 {
		usable = 0
	}
	state := StateReady
	if usable <= 0 {
		state = StateEmpty
	}
	t := &Tank{
		ID:              id,
		State:           state,
		Volume:          usable,
		UsableCapacity:  usableCapacity,
		UnusablePerTank: unusablePerTank,
		CycleIndex:      1,
		Mix:             map[string]float64{},
		MixPct:          map[string]float64{},
	}
	t.record(state, now)
	return t
}

func (t *Tank) record(state State, at shared.Instant) {
	t.history = append(t.history, stateChange{At: at, State: state})
}

// ChangeState transitions the tank and appends a history entry at the
// exact instant the transition logically occurs — callers pass the
// computed instant (e.g. end_time or end_time+1s), never "now" when the
// timer was merely discovered.
func (t *Tank) ChangeState(state State, at shared.Instant) {
	t.State = state
	t.record(state, at)
}

// StateAt answers a point-in-time query: the last recorded state with
// At <= ts, via binary search over the append-only history. Ties at the
// same timestamp resolve to the later insertion, matching a stable sort
// on (timestamp, phase-order, insertion-order).
func (t *Tank) StateAt(ts shared.Instant) State {
	idx := sort.Search(len(t.history), func(i int) bool {
		return t.history[i].At.After(ts)
	})
	if idx == 0 {
		if len(t.history) == 0 {
			return t.State
		}
		return t.history[0].State
	}
	return t.history[idx-1].State
}

// EligibleForFill reports whether the tank may begin or resume a fill at
// now: EMPTY or SUSPENDED, past its preparation timer, and not already
// claimed by an in-flight fill.
func (t *Tank) EligibleForFill(now shared.Instant) bool {
	if t.State != StateEmpty && t.State != StateSuspended {
		return false
	}
	if t.ReadyForFillAt.Zero() {
		return true
	}
	return !now.Before(t.ReadyForFillAt)
}

// StartFill transitions EMPTY/SUSPENDED -> FILLING, reserving the crude
// blend immediately (mix is recorded at fill start; tank.Volume is only
// updated at completion). Returns true if this is the tank's first fill
// of its current cycle (for FILL_START_FIRST vs FILL_START naming).
func (t *Tank) StartFill(now shared.Instant, crude string, volume float64) (first bool, err error) {
	if t.State != StateEmpty && t.State != StateSuspended {
		return false, shared.NewInvalidTransitionError("tank is not eligible to start a fill")
	}
	t.ChangeState(StateFilling, now)
	if t.Mix == nil {
		t.Mix = map[string]float64{}
	}
	t.Mix[crude] += volume
	first = !t.FirstFillDone
	t.FirstFillDone = true
	return first, nil
}

// IsFull reports whether the tank's current gross volume is within
// FullTankTolerance of total gross capacity.
func (t *Tank) IsFull() bool {
	gross := t.Volume + t.UnusablePerTank
	totalGross := t.UsableCapacity + t.UnusablePerTank
	return gross >= totalGross-FullTankTolerance
}

// CompleteFill adds volume to the tank (clamped to usable capacity) and
// reports whether the tank is now full. It does not change state; the
// caller (the engine's maybeFinishFill) drives FILLED/SETTLING or SUSPENDED from the
// result, since that also requires logging the transition event.
func (t *Tank) CompleteFill(volume float64) (full bool) {
	t.Volume += volume
	if t.Volume > t.UsableCapacity {
		t.Volume = t.UsableCapacity
	}
	return t.IsFull()
}

// FreezeMixPct computes and stores the frozen mix percentages at
// FILL_FINAL_END. Called once, when the tank transitions to FILLED.
func (t *Tank) FreezeMixPct() {
	total := 0.0
	for _, v := range t.Mix {
		total += v
	}
	t.MixPct = map[string]float64{}
	if total <= 0 {
		return
	}
	for crude, v := range t.Mix {
		t.MixPct[crude] = v / total * 100.0
	}
}

// BeginSettling sets the settle/lab/ready timers from end (the fill
// completion instant) and the configured settling/lab durations. The
// caller performs the FILLED->SETTLING state change separately since
// that requires an event log entry at the same instant.
func (t *Tank) BeginSettling(end shared.Instant, settleHours, labHours float64) {
	settleEnd := end.AddHours(settleHours)
	t.SettleEndAt = settleEnd
	if labHours > 0 {
		t.LabStartAt = settleEnd
		t.ReadyAt = settleEnd.AddHours(labHours)
	} else {
		t.LabStartAt = shared.Instant{}
		t.ReadyAt = settleEnd
	}
}

// Suspend marks a partial (non-full) fill completion: SUSPENDED with a
// preparation timer before the next slice may begin.
func (t *Tank) Suspend(end shared.Instant, tankFillGapHours float64) {
	t.ChangeState(StateSuspended, end)
	t.ReadyForFillAt = end.AddHours(tankFillGapHours)
}

// PromoteToLab transitions SETTLING -> LAB once settle_end_at has
// elapsed and lab_hours > 0.
func (t *Tank) PromoteToLab(at shared.Instant) {
	t.ChangeState(StateLab, at)
}

// PromoteToReady transitions SETTLING or LAB -> READY, incrementing the
// cycle index. Returns the cycle index the just-completed cycle used
// (the value event names should be suffixed with), i.e. the value
// in effect before the increment.
func (t *Tank) PromoteToReady(at shared.Instant) int {
	cycle := t.CycleIndex
	t.Volume = t.UsableCapacity
	t.ChangeState(StateReady, at)
	t.CycleIndex++
	t.Mix = map[string]float64{}
	t.MixPct = map[string]float64{}
	t.FirstFillDone = false
	t.SettleEndAt = shared.Instant{}
	t.LabStartAt = shared.Instant{}
	t.ReadyAt = shared.Instant{}
	return cycle
}

// StartFeeding transitions READY -> FEEDING, capping volume at usable
// capacity and capturing the feed-start snapshot.
func (t *Tank) StartFeeding(now shared.Instant) {
	if t.Volume > t.UsableCapacity {
		t.Volume = t.UsableCapacity
	}
	t.ChangeState(StateFeeding, now)
	t.FeedStartVolume = t.Volume
	t.FeedStartTime = now
}

// Consume removes volume from a feeding tank, clamped at zero.
func (t *Tank) Consume(amount float64) {
	t.Volume -= amount
	if t.Volume < 0 {
		t.Volume = 0
	}
}

// Empty transitions FEEDING -> EMPTY at the exact instant the tank ran
// dry, resetting the per-cycle fill bookkeeping and arming the
// post-empty preparation timer.
func (t *Tank) Empty(at shared.Instant, tankGapHours float64) {
	t.Volume = 0
	t.ChangeState(StateEmpty, at)
	t.ReadyForFillAt = at.AddHours(tankGapHours)
	t.FirstFillDone = false
}
