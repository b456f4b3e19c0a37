// Package persistence adapts the report synthesizer's output rows onto
// GORM models for post-run storage, applied once after a simulation
// completes rather than inside the step loop.
package persistence

import "time"

// RunModel is one simulation run, the parent row every other table
// hangs off of.
type RunModel struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	StartDatetime time.Time `gorm:"column:start_datetime;not null"`
	HorizonDays   float64   `gorm:"column:horizon_days;not null"`
	Seed          int64     `gorm:"column:seed;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (RunModel) TableName() string { return "runs" }

// EventLogModel mirrors one event.Record row.
type EventLogModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      int       `gorm:"column:run_id;index:idx_events_run;not null"`
	Run        *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	EventID    string    `gorm:"column:event_id;size:36;not null"`
	At         time.Time `gorm:"column:at;index:idx_events_run_at;not null"`
	Level      string    `gorm:"column:level;size:16;not null"`
	Name       string    `gorm:"column:name;size:64;not null"`
	TankID     *int      `gorm:"column:tank_id"`
	Cargo      string    `gorm:"column:cargo;size:64"`
	Message    string    `gorm:"column:message;type:text;not null"`
	CycleIndex *int      `gorm:"column:cycle_index"`
}

func (EventLogModel) TableName() string { return "event_log" }

// DailySummaryModel mirrors one event.DailySummaryRow.
type DailySummaryModel struct {
	ID                  int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID               int       `gorm:"column:run_id;index:idx_daily_run;not null"`
	Run                 *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Date                time.Time `gorm:"column:date;not null"`
	OpeningGrossStock   float64   `gorm:"column:opening_gross_stock;not null"`
	OpeningCertifiedStk float64   `gorm:"column:opening_certified_stock;not null"`
	OpeningUncertStk    float64   `gorm:"column:opening_uncertified_stock;not null"`
	ProcessedVolume     float64   `gorm:"column:processed_volume;not null"`
	ClosingGrossStock   float64   `gorm:"column:closing_gross_stock;not null"`
	ReadyTanks          int       `gorm:"column:ready_tanks;not null"`
	EmptyTanks          int       `gorm:"column:empty_tanks;not null"`
}

func (DailySummaryModel) TableName() string { return "daily_summary" }

// CargoReportModel mirrors one event.CargoReportRow.
type CargoReportModel struct {
	ID                     int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID                  int       `gorm:"column:run_id;index:idx_cargo_run;not null"`
	Run                    *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VesselName             string    `gorm:"column:vessel_name;size:64;not null"`
	CargoType              string    `gorm:"column:cargo_type;size:16;not null"`
	Berth                  int       `gorm:"column:berth;not null"`
	ArrivalAt              time.Time `gorm:"column:arrival_at;not null"`
	DischargeStartAt       time.Time `gorm:"column:discharge_start_at;not null"`
	DischargeEndAt         time.Time `gorm:"column:discharge_end_at;not null"`
	BerthGapHours          float64   `gorm:"column:berth_gap_hours"`
	BerthGapKnown          bool      `gorm:"column:berth_gap_known;not null"`
	DischargeDurationHours float64   `gorm:"column:discharge_duration_hours;not null"`
	TotalVolumeDischarged  float64   `gorm:"column:total_volume_discharged;not null"`
	TanksFilled            float64   `gorm:"column:tanks_filled;not null"`
}

func (CargoReportModel) TableName() string { return "cargo_report" }

// TankFillDetailModel mirrors one event.TankFillDetail, owned by a
// CargoReportModel row.
type TankFillDetailModel struct {
	ID              int               `gorm:"column:id;primaryKey;autoIncrement"`
	CargoReportID   int               `gorm:"column:cargo_report_id;index:idx_fill_detail_report;not null"`
	CargoReport     *CargoReportModel `gorm:"foreignKey:CargoReportID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TankID          int               `gorm:"column:tank_id;not null"`
	Start           time.Time         `gorm:"column:start;not null"`
	End             time.Time         `gorm:"column:end;not null"`
	Volume          float64           `gorm:"column:volume;not null"`
}

func (TankFillDetailModel) TableName() string { return "tank_fill_detail" }

// TankSnapshotModel mirrors one event.Snapshot, flattened one row per
// tank per snapshot instant.
type TankSnapshotModel struct {
	ID     int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID  int       `gorm:"column:run_id;index:idx_snapshot_run_at;not null"`
	Run    *RunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	At     time.Time `gorm:"column:at;index:idx_snapshot_run_at;not null"`
	TankID int       `gorm:"column:tank_id;not null"`
	Volume float64   `gorm:"column:volume;not null"`
	State  string    `gorm:"column:state;size:16;not null"`
}

func (TankSnapshotModel) TableName() string { return "tank_snapshot" }
