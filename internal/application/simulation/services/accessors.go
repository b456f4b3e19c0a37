package services

import (
	"github.com/oiltrace/tanksim/internal/domain/cargo"
	"github.com/oiltrace/tanksim/internal/domain/tank"
)

// Cargos returns every cargo registered against the run, in scheduling
// order.
func (e *Engine) Cargos() []*cargo.Cargo {
	out := make([]*cargo.Cargo, len(e.cargos))
	copy(out, e.cargos)
	return out
}

// NumTanks returns the configured tank count.
func (e *Engine) NumTanks() int {
	return e.N
}

// Tank returns the tank with the given ID, or nil if out of range.
func (e *Engine) Tank(id int) *tank.Tank {
	return e.tanks[id]
}

// UsablePerTank returns the configured per-tank usable capacity.
func (e *Engine) UsablePerTank() float64 {
	return e.usable
}
