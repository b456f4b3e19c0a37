// Package event implements the append-only event log, daily summary,
// cargo report, and tank-snapshot streams the engine emits.
package event

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/oiltrace/tanksim/internal/domain/shared"
)

// Level is the severity of a log record, matching the four levels the
// output contract distinguishes.
type Level string

const (
	LevelInfo    Level = "Info"
	LevelSuccess Level = "Success"
	LevelWarning Level = "Warning"
	LevelDanger  Level = "Danger"
)

// Cycle-indexed event names receive a "_<cycle>" suffix; everything
// else is emitted unsuffixed.
const (
	NameFillStartFirst = "FILL_START_FIRST"
	NameFillFinalEnd   = "FILL_FINAL_END"
	NameSettlingStart  = "SETTLING_START"
	NameSettlingEnd    = "SETTLING_END"
	NameReady          = "READY"

	NameSimStart          = "SIM_START"
	NameConfig            = "CONFIG"
	NameFeedStart         = "FEED_START"
	NameArrival           = "ARRIVAL"
	NameFillStart         = "FILL_START"
	NameFillEnd           = "FILL_END"
	NameTankEmpty         = "TANK_EMPTY"
	NameEmptyStart        = "EMPTY_START"
	NameFeedChangeover    = "FEED_CHANGEOVER"
	NameTankGapStart      = "TANK_GAP_START"
	NameDischargeComplete = "DISCHARGE_COMPLETE"
	NameProcessingHalt    = "PROCESSING_HALT"
	NameProcessingResume  = "PROCESSING_RESUME"
	NameDailyStatus       = "DAILY_STATUS"
	NameDailyEnd          = "DAILY_END"
	NameSolverInit        = "SOLVER_INIT"
	NameSolverInitFail    = "SOLVER_INIT_FAIL"
)

var cycleSuffixed = map[string]bool{
	NameFillStartFirst: true,
	NameFillFinalEnd:   true,
	NameSettlingStart:  true,
	NameSettlingEnd:    true,
	NameReady:          true,
}

// IsCycleSuffixed reports whether name gets a "_<cycle>" suffix.
func IsCycleSuffixed(name string) bool {
	return cycleSuffixed[name]
}

// Record is one canonical event log entry.
type Record struct {
	ID      uuid.UUID
	At      shared.Instant
	Level   Level
	Name    string
	TankID  *int
	Cargo   string
	Message string

	// CycleIndex is the tank's cycle index at the moment the event
	// fired, captured on the record itself so that rendering the
	// cycle-suffixed name later is a pure function of the record, not
	// a live lookup against possibly-advanced tank state.
	CycleIndex *int

	// States is a per-tank snapshot of state at At, derived from each
	// tank's history (not live current state), so a past record always
	// reproduces the state the tanks actually held at that instant.
	States map[int]string
}

// EventName returns Name, cycle-suffixed when applicable and a cycle
// index was captured on the record.
func (r Record) EventName() string {
	if cycleSuffixed[r.Name] && r.CycleIndex != nil {
		return r.Name + "_" + strconv.Itoa(*r.CycleIndex)
	}
	return r.Name
}

// NewID mints a fresh event identifier.
func NewID() uuid.UUID {
	return uuid.New()
}
