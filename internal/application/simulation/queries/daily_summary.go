package queries

import (
	"context"
	"fmt"

	"github.com/oiltrace/tanksim/internal/application/mediator"
	"github.com/oiltrace/tanksim/internal/application/simulation/services"
	"github.com/oiltrace/tanksim/internal/domain/event"
)

// GetDailySummaryQuery asks for the per-day opening/closing stock rows.
type GetDailySummaryQuery struct {
	Engine *services.Engine
}

type GetDailySummaryResult struct {
	Rows []event.DailySummaryRow
}

type GetDailySummaryHandler struct{}

func NewGetDailySummaryHandler() *GetDailySummaryHandler { return &GetDailySummaryHandler{} }

func (h *GetDailySummaryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(GetDailySummaryQuery)
	if !ok {
		return nil, fmt.Errorf("get_daily_summary: unexpected request type %T", request)
	}
	return GetDailySummaryResult{Rows: q.Engine.Recorder().DailySummaries()}, nil
}
