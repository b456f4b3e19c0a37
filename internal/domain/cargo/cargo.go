// Package cargo models a marine cargo: a berthed vessel delivering a
// fixed crude volume into the tank farm across one or more tank fills.
package cargo

import "github.com/oiltrace/tanksim/internal/domain/shared"

// Type is a cargo size class. Solver-mode cargos may carry TypeUnknown
// when the plan does not name a recognised class.
type Type string

const (
	TypeVLCC    Type = "VLCC"
	TypeSuez    Type = "SUEZ"
	TypeAfra    Type = "AFRA"
	TypePana    Type = "PANA"
	TypeHandy   Type = "HANDY"
	TypeUnknown Type = "UNKNOWN"
)

// TankFill is one completed tank-fill slice of a cargo's discharge.
type TankFill struct {
	TankID int
	Start  shared.Instant
	End    shared.Instant
	Volume float64
}

// Cargo is a single vessel's discharge record, identified by its unique
// VesselName.
type Cargo struct {
	VesselName string
	Type       Type
	CrudeType  string
	Berth      int

	VolumeTotal      float64
	RemainingVolume  float64
	ArrivalAt        shared.Instant
	FillStartAt      shared.Instant
	DischargeStartAt shared.Instant
	DischargeEndAt   shared.Instant

	TankFills []TankFill

	NextFillAvailableAt shared.Instant
	Dispatched          bool
	ArrivalLogged       bool
	StartedFillingLogged bool

	TanksStarted int
	TanksDone    int

	// CargoID is the solver plan's external identifier, if this cargo
	// came from a solver assignment rather than standard scheduling.
	CargoID string
}

// New creates a cargo with its full nominal volume outstanding.
func New(vesselName string, typ Type, crude string, berth int, volume float64, arrival shared.Instant, fillDelayHours float64) *Cargo {
	return &Cargo{
		VesselName:      vesselName,
		Type:            typ,
		CrudeType:       crude,
		Berth:           berth,
		VolumeTotal:     volume,
		RemainingVolume: volume,
		ArrivalAt:       arrival,
		FillStartAt:     arrival.AddHours(fillDelayHours),
	}
}

// ReadyToFill reports whether this cargo may begin a new tank fill at
// now: volume outstanding, past its fill-start time (until discharge has
// begun), and past any inter-tank gap. Whether a fill is already active
// for the cargo is not checked here.
func (c *Cargo) ReadyToFill(now shared.Instant) bool {
	if c.RemainingVolume <= 1.0 {
		return false
	}
	if c.DischargeStartAt.Zero() && now.Before(c.FillStartAt) {
		return false
	}
	if !c.NextFillAvailableAt.Zero() && now.Before(c.NextFillAvailableAt) {
		return false
	}
	return true
}

// RegisterFillStart records that discharge has begun, if this is the
// cargo's first tank fill.
func (c *Cargo) RegisterFillStart(now shared.Instant) {
	c.TanksStarted++
	if c.DischargeStartAt.Zero() {
		c.DischargeStartAt = now
	}
}

// RegisterFillCompletion records a completed slice, decrements the
// outstanding volume, and reports whether the cargo has now fully
// discharged (remaining <= 1 bbl).
func (c *Cargo) RegisterFillCompletion(tankID int, start, end shared.Instant, volume float64) (finished bool) {
	c.TanksDone++
	c.TankFills = append(c.TankFills, TankFill{TankID: tankID, Start: start, End: end, Volume: volume})
	c.RemainingVolume -= volume
	if c.RemainingVolume <= 1.0 {
		c.DischargeEndAt = end
		return true
	}
	return false
}

// ActualVolumeDischarged sums the recorded tank-fill volumes.
func (c *Cargo) ActualVolumeDischarged() float64 {
	total := 0.0
	for _, f := range c.TankFills {
		total += f.Volume
	}
	return total
}
