// Package services implements the simulation engine: the step driver,
// feeding controller, fill controller, and berth/cargo scheduler that
// together drive the tank farm forward one tick at a time.
package services

import (
	"fmt"
	"math"

	"github.com/oiltrace/tanksim/internal/domain/berth"
	"github.com/oiltrace/tanksim/internal/domain/cargo"
	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/domain/solverplan"
	"github.com/oiltrace/tanksim/internal/domain/tank"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

// activeFill is a per-cargo in-flight fill: which tank, when it ends,
// and how much it will add.
type activeFill struct {
	tankID int
	end    shared.Instant
	volume float64
}

// Engine owns every central table the simulation needs — tanks, cargos,
// berths, active fills — and is stepped forward one tick at a time by
// Driver. Components never hold references to each other, only to the
// Engine's tables, resolved by integer or vessel-name ID.
type Engine struct {
	cfg config.SimulationConfig

	random shared.RandomSource

	start        shared.Instant
	horizonDays  float64
	usable       float64
	unusable     float64
	settleHours  float64
	labHours     float64
	rateHour     float64
	rateDay      float64

	tanks map[int]*tank.Tank
	N     int

	berths      *berth.Table
	cargos      []*cargo.Cargo
	cargoByName map[string]*cargo.Cargo

	activeFills map[string]activeFill

	active             int // currently feeding tank ID, 0 = none
	haltLogged         bool
	firstCargoScheduled bool
	initiallyEmptyTanks []int

	tankFilledFirst map[int]bool

	enabledCargos     map[string]float64
	tanksNeededByType map[string]int
	cargoCounter      map[string]int

	useSolverPlan bool
	plan          *solverplan.Plan
	cargoAssignID map[string]string // vessel name -> solver cargo id

	recorder *event.Recorder

	infeasible       bool
	infeasibleReason string
}

// New constructs an engine from a validated simulation config, seeding
// tank and berth tables and emitting the SIM_START/FEED_START/CONFIG
// bootstrap events exactly as the original scheduler does.
func New(cfg config.SimulationConfig, startTime shared.Instant, random shared.RandomSource) (*Engine, error) {
	if cfg.NumTanks <= 0 {
		return nil, shared.NewInfeasibleError("num_tanks must be positive")
	}

	unusable := cfg.DeadBottom + cfg.BufferVolume/2.0

	eng := &Engine{
		cfg:               cfg,
		random:            random,
		start:             startTime,
		horizonDays:       cfg.HorizonDays,
		usable:            cfg.UsablePerTank,
		unusable:          unusable,
		settleHours:       cfg.SettlingDays * 24.0,
		labHours:          cfg.LabHours,
		rateHour:          cfg.DischargeRateBblHr,
		rateDay:           cfg.ProcessingRateBblDay,
		tanks:             map[int]*tank.Tank{},
		N:                 cfg.NumTanks,
		berths:            berth.NewTable(startTime),
		cargoByName:       map[string]*cargo.Cargo{},
		activeFills:       map[string]activeFill{},
		tankFilledFirst:   map[int]bool{},
		enabledCargos:     cfg.CargoDefs,
		tanksNeededByType: map[string]int{},
		cargoCounter: map[string]int{
			"VLCC": 0, "SUEZ": 0, "AFRA": 0, "PANA": 0, "HANDY": 0,
		},
		recorder: event.NewRecorder(),
	}

	for name, vol := range eng.enabledCargos {
		if vol > 0 {
			eng.tanksNeededByType[name] = int(math.Ceil(vol / eng.usable))
		}
	}

	for i := 1; i <= eng.N; i++ {
		initial, ok := cfg.InitialTankVolumes[i]
		if !ok {
			initial = eng.usable + unusable
		}
		t := tank.NewTank(i, eng.usable, unusable, initial, startTime)
		eng.tanks[i] = t
		if t.State == tank.StateEmpty {
			eng.initiallyEmptyTanks = append(eng.initiallyEmptyTanks, i)
		}
	}

	eng.active = 1
	eng.tanks[1].StartFeeding(startTime)

	eng.recorder.Log(event.Record{
		At: startTime, Level: event.LevelInfo, Name: event.NameSimStart,
		Message: fmt.Sprintf("Simulation started with processing rate: %.0f bbl/day", eng.rateDay),
		States:  eng.stateSnapshot(startTime),
	})
	eng.recorder.Log(event.Record{
		At: startTime, Level: event.LevelInfo, Name: event.NameFeedStart,
		TankID: intPtr(1), Message: fmt.Sprintf("Initial feeding starts from Tank %d", 1),
		States: eng.stateSnapshot(startTime),
	})
	eng.recorder.Log(event.Record{
		At: startTime, Level: event.LevelInfo, Name: event.NameConfig,
		Message: fmt.Sprintf("CONFIG: usable_per_tank=%.0f, dead_bottom=%.0f, buffer_volume=%.0f, unusable=%.0f",
			eng.usable, cfg.DeadBottom, cfg.BufferVolume, unusable),
		States: eng.stateSnapshot(startTime),
	})

	if cfg.UseSolverPlan {
		if cfg.SolverPlan == nil {
			return nil, shared.NewConfigInvalidError("solver_plan", "use_solver_plan set but no plan supplied")
		}
		eng.useSolverPlan = true
		eng.plan = solverplan.New()
		eng.cargoAssignID = map[string]string{}
		eng.loadSolverCargos(*cfg.SolverPlan)
		eng.recorder.Log(event.Record{
			At: startTime, Level: event.LevelInfo, Name: event.NameSolverInit,
			Message: "Solver-based optimization plan loaded successfully", States: eng.stateSnapshot(startTime),
		})
	}

	return eng, nil
}

func intPtr(i int) *int { return &i }

// stateSnapshot derives each tank's state at now from its history,
// rather than reading live State fields, so a record emitted for a
// past instant always reflects the past, not wherever the driver loop
// has since advanced to.
func (e *Engine) stateSnapshot(now shared.Instant) map[int]string {
	out := make(map[int]string, e.N)
	for i := 1; i <= e.N; i++ {
		out[i] = string(e.tanks[i].StateAt(now))
	}
	return out
}

func (e *Engine) loadSolverCargos(plan config.SolverPlan) {
	berthID := 1
	for _, sc := range plan.CargoSchedule {
		vessel := sc.VesselName
		if vessel == "" {
			vessel = fmt.Sprintf("SOLVER-%s", sc.CargoID)
		}
		c := cargo.New(vessel, cargo.Type(normalizeType(sc.Type)), sc.CrudeName, berthID, sc.Size, e.start, e.cfg.PreDischargeDays*24.0)
		c.CargoID = sc.CargoID
		e.cargos = append(e.cargos, c)
		e.cargoByName[vessel] = c
		e.cargoAssignID[vessel] = sc.CargoID

		e.plan.AddCargo(solverplan.CargoSpec{CargoID: sc.CargoID, Type: sc.Type, CrudeName: sc.CrudeName, Volume: sc.Size})
		for _, a := range sc.Assignments {
			e.plan.AddAssignment(sc.CargoID, &solverplan.Assignment{TankID: a.TankID, Volume: a.Volume, CrudeName: a.Crude})
		}

		if berthID == 1 {
			berthID = 2
		} else {
			berthID = 1
		}
	}
}

func normalizeType(s string) string {
	switch s {
	case "VLCC", "SUEZ", "AFRA", "PANA", "HANDY":
		return s
	default:
		return "UNKNOWN"
	}
}

// Recorder exposes the accumulated output streams once a run completes.
func (e *Engine) Recorder() *event.Recorder {
	return e.recorder
}

// Infeasible reports whether the run aborted mid-simulation.
func (e *Engine) Infeasible() (bool, string) {
	return e.infeasible, e.infeasibleReason
}

func (e *Engine) countState(s tank.State) int {
	n := 0
	for i := 1; i <= e.N; i++ {
		if e.tanks[i].State == s {
			n++
		}
	}
	return n
}
