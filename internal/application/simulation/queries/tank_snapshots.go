package queries

import (
	"context"
	"fmt"

	"github.com/oiltrace/tanksim/internal/application/mediator"
	"github.com/oiltrace/tanksim/internal/application/simulation/services"
	"github.com/oiltrace/tanksim/internal/domain/event"
)

// GetTankSnapshotsQuery asks for every periodic full-tank-inventory row.
type GetTankSnapshotsQuery struct {
	Engine *services.Engine
}

type GetTankSnapshotsResult struct {
	Snapshots []event.Snapshot
}

type GetTankSnapshotsHandler struct{}

func NewGetTankSnapshotsHandler() *GetTankSnapshotsHandler { return &GetTankSnapshotsHandler{} }

func (h *GetTankSnapshotsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(GetTankSnapshotsQuery)
	if !ok {
		return nil, fmt.Errorf("get_tank_snapshots: unexpected request type %T", request)
	}
	return GetTankSnapshotsResult{Snapshots: q.Engine.Recorder().Snapshots()}, nil
}
