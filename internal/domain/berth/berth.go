// Package berth models the two-slot marine berth table that gates cargo
// arrivals and discharge occupancy.
package berth

import "github.com/oiltrace/tanksim/internal/domain/shared"

// Berth is one of the two discharge berths.
type Berth struct {
	ID            int
	FreeAt        shared.Instant
	CurrentCargo  string // vessel name, empty if idle
}

// Table owns both berths, keyed by ID (1 and 2).
type Table struct {
	berths map[int]*Berth
}

// NewTable creates both berths free from the simulation start instant.
func NewTable(start shared.Instant) *Table {
	return &Table{
		berths: map[int]*Berth{
			1: {ID: 1, FreeAt: start},
			2: {ID: 2, FreeAt: start},
		},
	}
}

// Get returns the berth with the given ID.
func (t *Table) Get(id int) *Berth {
	return t.berths[id]
}

// IDs returns the berth IDs in stable order (1, 2).
func (t *Table) IDs() []int {
	return []int{1, 2}
}

// Idle reports whether the berth has no current cargo and is free at or
// before now.
func (b *Berth) Idle(now shared.Instant) bool {
	return b.CurrentCargo == "" && !b.FreeAt.After(now)
}

// Occupy seats a cargo at the berth.
func (b *Berth) Occupy(vesselName string) {
	b.CurrentCargo = vesselName
}

// Release frees the berth at the given instant.
func (b *Berth) Release(at shared.Instant) {
	b.CurrentCargo = ""
	b.FreeAt = at
}
