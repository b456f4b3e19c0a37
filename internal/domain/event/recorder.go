package event

import (
	"sort"

	"github.com/oiltrace/tanksim/internal/domain/shared"
)

// Snapshot is one periodic full-tank-inventory row.
type Snapshot struct {
	At      shared.Instant
	Volumes map[int]float64
	States  map[int]string
}

// DailySummaryRow is one simulated day's opening/closing stock row.
type DailySummaryRow struct {
	Date                shared.Instant
	OpeningGrossStock   float64
	OpeningCertifiedStk float64
	OpeningUncertStk    float64
	ProcessedVolume     float64
	ClosingGrossStock   float64
	ReadyTanks          int
	EmptyTanks          int
	TankStates          map[int]string
}

// CargoReportRow is one discharged cargo's report line.
type CargoReportRow struct {
	VesselName              string
	CargoType               string
	Berth                   int
	ArrivalAt               shared.Instant
	DischargeStartAt        shared.Instant
	DischargeEndAt          shared.Instant
	BerthGapHours           float64
	BerthGapKnown           bool
	DischargeDurationHours  float64
	TotalVolumeDischarged   float64
	TanksFilled             float64
	TankFills               []TankFillDetail
}

// TankFillDetail is one discharged-cargo tank-fill segment.
type TankFillDetail struct {
	TankID int
	Start  shared.Instant
	End    shared.Instant
	Volume float64
}

// Recorder is the engine's append-only sink for all four output
// streams. Events are stored in the order they are logged, which is not
// always timestamp order (an arrival can be logged ahead of its instant,
// a settling end after it); Events() returns them stably sorted by
// timestamp, the same safety net the original takes before writing its
// CSVs.
type Recorder struct {
	events    []Record
	snapshots []Snapshot
	daily     []DailySummaryRow
	cargo     []CargoReportRow
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Log appends an event record.
func (r *Recorder) Log(rec Record) {
	if rec.ID == (Record{}).ID {
		rec.ID = NewID()
	}
	r.events = append(r.events, rec)
}

// Snapshot appends a periodic tank snapshot.
func (r *Recorder) Snapshot(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

// DailySummary appends a daily summary row.
func (r *Recorder) DailySummary(row DailySummaryRow) {
	r.daily = append(r.daily, row)
}

// CargoReport appends a cargo report row.
func (r *Recorder) CargoReport(row CargoReportRow) {
	r.cargo = append(r.cargo, row)
}

// Events returns the event log, stably sorted by timestamp as a
// defensive final step.
func (r *Recorder) Events() []Record {
	out := make([]Record, len(r.events))
	copy(out, r.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

// Snapshots returns all recorded tank snapshots in emission order.
func (r *Recorder) Snapshots() []Snapshot {
	out := make([]Snapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

// DailySummaries returns all recorded daily summary rows.
func (r *Recorder) DailySummaries() []DailySummaryRow {
	out := make([]DailySummaryRow, len(r.daily))
	copy(out, r.daily)
	return out
}

// CargoReportRows returns all recorded cargo report rows.
func (r *Recorder) CargoReportRows() []CargoReportRow {
	out := make([]CargoReportRow, len(r.cargo))
	copy(out, r.cargo)
	return out
}
