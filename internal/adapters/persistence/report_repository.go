package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
)

// ReportRepository persists one completed run's four output streams.
// It is only ever invoked once, after the step loop has finished -
// never from inside the engine itself.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository wraps an already-migrated GORM connection.
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// RunInput bundles the source data a completed run produces, decoupled
// from the engine type so the repository only depends on domain/event
// and config.
type RunInput struct {
	Config    config.SimulationConfig
	Events    []event.Record
	Daily     []event.DailySummaryRow
	Cargo     []event.CargoReportRow
	Snapshots []event.Snapshot
}

// SaveRun writes every row for one run inside a single transaction,
// returning the generated run ID.
func (r *ReportRepository) SaveRun(ctx context.Context, in RunInput) (int, error) {
	var runID int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		start, err := in.Config.StartTime()
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}

		run := RunModel{
			StartDatetime: start,
			HorizonDays:   in.Config.HorizonDays,
			Seed:          in.Config.Seed,
		}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		runID = run.ID

		if err := saveEvents(tx, run.ID, in.Events); err != nil {
			return err
		}
		if err := saveDaily(tx, run.ID, in.Daily); err != nil {
			return err
		}
		if err := saveCargo(tx, run.ID, in.Cargo); err != nil {
			return err
		}
		if err := saveSnapshots(tx, run.ID, in.Snapshots); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return runID, nil
}

func saveEvents(tx *gorm.DB, runID int, events []event.Record) error {
	models := make([]EventLogModel, 0, len(events))
	for _, e := range events {
		models = append(models, EventLogModel{
			RunID:      runID,
			EventID:    e.ID.String(),
			At:         e.At.Time(),
			Level:      string(e.Level),
			Name:       e.EventName(),
			TankID:     e.TankID,
			Cargo:      e.Cargo,
			Message:    e.Message,
			CycleIndex: e.CycleIndex,
		})
	}
	if len(models) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(models, 200).Error; err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

func saveDaily(tx *gorm.DB, runID int, rows []event.DailySummaryRow) error {
	models := make([]DailySummaryModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, DailySummaryModel{
			RunID:               runID,
			Date:                row.Date.Time(),
			OpeningGrossStock:   row.OpeningGrossStock,
			OpeningCertifiedStk: row.OpeningCertifiedStk,
			OpeningUncertStk:    row.OpeningUncertStk,
			ProcessedVolume:     row.ProcessedVolume,
			ClosingGrossStock:   row.ClosingGrossStock,
			ReadyTanks:          row.ReadyTanks,
			EmptyTanks:          row.EmptyTanks,
		})
	}
	if len(models) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(models, 200).Error; err != nil {
		return fmt.Errorf("save daily summary: %w", err)
	}
	return nil
}

func saveCargo(tx *gorm.DB, runID int, rows []event.CargoReportRow) error {
	for _, row := range rows {
		model := CargoReportModel{
			RunID:                  runID,
			VesselName:             row.VesselName,
			CargoType:              row.CargoType,
			Berth:                  row.Berth,
			ArrivalAt:              row.ArrivalAt.Time(),
			DischargeStartAt:       row.DischargeStartAt.Time(),
			DischargeEndAt:         row.DischargeEndAt.Time(),
			BerthGapHours:          row.BerthGapHours,
			BerthGapKnown:          row.BerthGapKnown,
			DischargeDurationHours: row.DischargeDurationHours,
			TotalVolumeDischarged:  row.TotalVolumeDischarged,
			TanksFilled:            row.TanksFilled,
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("save cargo report: %w", err)
		}

		fills := make([]TankFillDetailModel, 0, len(row.TankFills))
		for _, f := range row.TankFills {
			fills = append(fills, TankFillDetailModel{
				CargoReportID: model.ID,
				TankID:        f.TankID,
				Start:         f.Start.Time(),
				End:           f.End.Time(),
				Volume:        f.Volume,
			})
		}
		if len(fills) > 0 {
			if err := tx.CreateInBatches(fills, 200).Error; err != nil {
				return fmt.Errorf("save tank fill details: %w", err)
			}
		}
	}
	return nil
}

func saveSnapshots(tx *gorm.DB, runID int, snapshots []event.Snapshot) error {
	var models []TankSnapshotModel
	for _, s := range snapshots {
		for tankID, vol := range s.Volumes {
			models = append(models, TankSnapshotModel{
				RunID:  runID,
				At:     s.At.Time(),
				TankID: tankID,
				Volume: vol,
				State:  s.States[tankID],
			})
		}
	}
	if len(models) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(models, 500).Error; err != nil {
		return fmt.Errorf("save tank snapshots: %w", err)
	}
	return nil
}
