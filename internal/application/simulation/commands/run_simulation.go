// Package commands holds the mediator command side of the simulation
// application layer: running a full simulation end to end.
package commands

import (
	"context"
	"fmt"

	"github.com/oiltrace/tanksim/internal/application/mediator"
	"github.com/oiltrace/tanksim/internal/application/simulation/services"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

// RunSimulationCommand requests a full horizon run of the engine built
// from cfg, starting at StartTime, with an optional seed override.
type RunSimulationCommand struct {
	Config    config.SimulationConfig
	StartTime shared.Instant
	Seed      *int64
}

// RunSimulationResult carries the built, fully-run engine so the
// caller can issue report queries against it.
type RunSimulationResult struct {
	Engine *services.Engine
}

// RunSimulationHandler builds and runs the engine for a
// RunSimulationCommand.
type RunSimulationHandler struct{}

// NewRunSimulationHandler constructs the handler.
func NewRunSimulationHandler() *RunSimulationHandler {
	return &RunSimulationHandler{}
}

// Handle satisfies mediator.RequestHandler.
func (h *RunSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(RunSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("run_simulation: unexpected request type %T", request)
	}

	seed := cmd.Seed
	var seedValue int64
	if seed != nil {
		seedValue = *seed
	} else {
		seedValue = shared.SeedFromConfig(fmt.Sprintf("%+v", cmd.Config))
	}
	random := shared.NewRandomSource(seedValue)

	engine, err := services.New(cmd.Config, cmd.StartTime, random)
	if err != nil {
		return nil, err
	}

	driver := services.NewDriver(engine)
	if err := driver.Run(); err != nil {
		return nil, err
	}

	return RunSimulationResult{Engine: engine}, nil
}
