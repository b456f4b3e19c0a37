// Package solverplan adapts a pre-computed, external solver's per-cargo
// fill assignments into the engine: it biases which tank the fill
// controller targets next for a given cargo, but never forces a start.
package solverplan

import "github.com/oiltrace/tanksim/internal/domain/shared"

// CargoSpec is one solver-provided cargo definition, pre-loaded at init.
type CargoSpec struct {
	CargoID   string
	Type      string
	CrudeName string
	Volume    float64
}

// Assignment is one planned (tank, volume, crude) slice of a cargo's
// discharge, with filled_so_far tracked as the run progresses.
type Assignment struct {
	TankID      int
	Volume      float64
	CrudeName   string
	FilledSoFar float64
}

// Remaining reports the outstanding planned volume on this assignment.
func (a *Assignment) Remaining() float64 {
	return a.Volume - a.FilledSoFar
}

// Plan holds the full solver output: the cargo list and, per cargo ID,
// its ordered assignment list.
type Plan struct {
	Cargos      []CargoSpec
	Assignments map[string][]*Assignment
}

// New builds an empty plan.
func New() *Plan {
	return &Plan{Assignments: map[string][]*Assignment{}}
}

// AddCargo registers a solver cargo definition.
func (p *Plan) AddCargo(spec CargoSpec) {
	p.Cargos = append(p.Cargos, spec)
}

// AddAssignment appends a planned slice for a cargo.
func (p *Plan) AddAssignment(cargoID string, a *Assignment) {
	p.Assignments[cargoID] = append(p.Assignments[cargoID], a)
}

// NextTarget walks a cargo's assignment list in order and returns the
// first assignment that is both actionable (remaining > 1 bbl) and
// whose eligible function reports the target tank is currently usable.
// It returns nil if no assignment is actionable this instant — the
// cargo simply waits (spec: the plan never forces a start).
func (p *Plan) NextTarget(cargoID string, eligible func(tankID int) bool) *Assignment {
	for _, a := range p.Assignments[cargoID] {
		if a.Remaining() <= 1.0 {
			continue
		}
		if eligible(a.TankID) {
			return a
		}
	}
	return nil
}

// NewAssignmentUnusable builds the non-fatal error for a cargo that has
// outstanding plan volume while every planned tank is presently
// ineligible.
func NewAssignmentUnusable(cargoID string) error {
	return shared.NewAssignmentUnusableError("cargo " + cargoID + ": no actionable solver assignment this instant")
}
