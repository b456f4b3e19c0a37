// Package queries implements the report synthesizer: read-only
// mediator queries that project the engine's recorder state into the
// four external output streams.
package queries

import (
	"context"
	"fmt"

	"github.com/oiltrace/tanksim/internal/application/mediator"
	"github.com/oiltrace/tanksim/internal/application/simulation/services"
	"github.com/oiltrace/tanksim/internal/domain/event"
)

// GetEventLogQuery asks for the full, chronologically sorted event log.
type GetEventLogQuery struct {
	Engine *services.Engine
}

// GetEventLogResult carries the sorted event records.
type GetEventLogResult struct {
	Events []event.Record
}

// GetEventLogHandler answers GetEventLogQuery.
type GetEventLogHandler struct{}

func NewGetEventLogHandler() *GetEventLogHandler { return &GetEventLogHandler{} }

func (h *GetEventLogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(GetEventLogQuery)
	if !ok {
		return nil, fmt.Errorf("get_event_log: unexpected request type %T", request)
	}
	return GetEventLogResult{Events: q.Engine.Recorder().Events()}, nil
}
