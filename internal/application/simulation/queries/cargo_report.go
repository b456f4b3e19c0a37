package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/oiltrace/tanksim/internal/application/mediator"
	"github.com/oiltrace/tanksim/internal/application/simulation/services"
	"github.com/oiltrace/tanksim/internal/domain/cargo"
	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
)

// GetCargoReportQuery asks for one report line per discharged cargo,
// including the gap since the previous vessel cleared the same berth.
type GetCargoReportQuery struct {
	Engine *services.Engine
}

type GetCargoReportResult struct {
	Rows []event.CargoReportRow
}

type GetCargoReportHandler struct{}

func NewGetCargoReportHandler() *GetCargoReportHandler { return &GetCargoReportHandler{} }

func (h *GetCargoReportHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(GetCargoReportQuery)
	if !ok {
		return nil, fmt.Errorf("get_cargo_report: unexpected request type %T", request)
	}

	dispatched := make([]*cargo.Cargo, 0)
	for _, c := range q.Engine.Cargos() {
		if !c.ArrivalAt.Zero() {
			dispatched = append(dispatched, c)
		}
	}

	sort.SliceStable(dispatched, func(i, j int) bool {
		if dispatched[i].Berth != dispatched[j].Berth {
			return dispatched[i].Berth < dispatched[j].Berth
		}
		return dispatched[i].ArrivalAt.Before(dispatched[j].ArrivalAt)
	})

	gapHours := make(map[string]float64, len(dispatched))
	gapKnown := make(map[string]bool, len(dispatched))
	lastDischargeEndByBerth := map[int]shared.Instant{}
	for _, c := range dispatched {
		lastEnd, ok := lastDischargeEndByBerth[c.Berth]
		if ok && !lastEnd.Zero() {
			gapHours[c.VesselName] = c.ArrivalAt.Sub(lastEnd).Hours()
			gapKnown[c.VesselName] = true
		}
		if !c.DischargeEndAt.Zero() {
			lastDischargeEndByBerth[c.Berth] = c.DischargeEndAt
		}
	}

	usable := q.Engine.UsablePerTank()
	var rows []event.CargoReportRow
	for _, c := range dispatched {
		if c.DischargeStartAt.Zero() {
			continue
		}
		actual := c.ActualVolumeDischarged()
		fills := make([]event.TankFillDetail, 0, len(c.TankFills))
		for _, f := range c.TankFills {
			fills = append(fills, event.TankFillDetail{TankID: f.TankID, Start: f.Start, End: f.End, Volume: f.Volume})
		}

		row := event.CargoReportRow{
			VesselName:             c.VesselName,
			CargoType:               string(c.Type),
			Berth:                   c.Berth,
			ArrivalAt:               c.ArrivalAt,
			DischargeStartAt:        c.DischargeStartAt,
			DischargeEndAt:          c.DischargeEndAt,
			BerthGapHours:           gapHours[c.VesselName],
			BerthGapKnown:           gapKnown[c.VesselName],
			TotalVolumeDischarged:   actual,
			TanksFilled:             actual / usable,
			TankFills:               fills,
		}
		if !c.DischargeEndAt.Zero() {
			row.DischargeDurationHours = c.DischargeEndAt.Sub(c.DischargeStartAt).Hours()
		}
		rows = append(rows, row)
	}

	return GetCargoReportResult{Rows: rows}, nil
}
