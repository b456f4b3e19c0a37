package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/oiltrace/tanksim/internal/adapters/persistence"
	"github.com/oiltrace/tanksim/internal/application/mediator"
	"github.com/oiltrace/tanksim/internal/application/simulation/commands"
	"github.com/oiltrace/tanksim/internal/application/simulation/queries"
	"github.com/oiltrace/tanksim/internal/domain/event"
	"github.com/oiltrace/tanksim/internal/domain/shared"
	"github.com/oiltrace/tanksim/internal/infrastructure/config"
	"github.com/oiltrace/tanksim/internal/infrastructure/database"
)

func newRunCommand() *cobra.Command {
	var configPath string
	var seedOverride int64
	var useSeedOverride bool
	var realtime bool
	var realtimeSecondsPerHour float64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full simulation horizon and print the report streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)

			startTime, err := cfg.Simulation.StartTime()
			if err != nil {
				return err
			}

			m := mediator.New()
			registerHandlers(m)

			runCmd := commands.RunSimulationCommand{
				Config:    cfg.Simulation,
				StartTime: shared.NewInstant(startTime),
			}
			if useSeedOverride {
				runCmd.Seed = &seedOverride
			}

			ctx := cmd.Context()
			resp, err := m.Send(ctx, runCmd)
			if err != nil {
				return fmt.Errorf("run simulation: %w", err)
			}
			result := resp.(commands.RunSimulationResult)
			engine := result.Engine

			eventsResp, err := m.Send(ctx, queries.GetEventLogQuery{Engine: engine})
			if err != nil {
				return err
			}
			events := eventsResp.(queries.GetEventLogResult).Events

			dailyResp, err := m.Send(ctx, queries.GetDailySummaryQuery{Engine: engine})
			if err != nil {
				return err
			}
			daily := dailyResp.(queries.GetDailySummaryResult).Rows

			cargoResp, err := m.Send(ctx, queries.GetCargoReportQuery{Engine: engine})
			if err != nil {
				return err
			}
			cargoRows := cargoResp.(queries.GetCargoReportResult).Rows

			snapResp, err := m.Send(ctx, queries.GetTankSnapshotsQuery{Engine: engine})
			if err != nil {
				return err
			}
			snapshots := snapResp.(queries.GetTankSnapshotsResult).Snapshots

			if err := printEventLog(events, realtime, realtimeSecondsPerHour); err != nil {
				return err
			}
			printDailySummary(daily)
			printCargoReport(cargoRows)

			if cfg.Database.Enabled {
				if err := persistRun(ctx, cfg, events, daily, cargoRows, snapshots); err != nil {
					return fmt.Errorf("persist run: %w", err)
				}
				fmt.Println("\n✓ Run persisted to database")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the simulation config file")
	cmd.Flags().Int64Var(&seedOverride, "seed", 0, "Override the simulation's random seed")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "Replay the event log paced at real wall-clock speed")
	cmd.Flags().Float64Var(&realtimeSecondsPerHour, "realtime-seconds-per-hour", 1.0, "Wall-clock seconds per simulated hour when --realtime is set")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		useSeedOverride = cmd.Flags().Changed("seed")
	}

	return cmd
}

func registerHandlers(m mediator.Mediator) {
	mediator.RegisterHandler[commands.RunSimulationCommand](m, commands.NewRunSimulationHandler())
	mediator.RegisterHandler[queries.GetEventLogQuery](m, queries.NewGetEventLogHandler())
	mediator.RegisterHandler[queries.GetDailySummaryQuery](m, queries.NewGetDailySummaryHandler())
	mediator.RegisterHandler[queries.GetCargoReportQuery](m, queries.NewGetCargoReportHandler())
	mediator.RegisterHandler[queries.GetTankSnapshotsQuery](m, queries.NewGetTankSnapshotsHandler())
}

// printEventLog prints every event record in order. In --realtime mode
// a rate.Limiter paces emission at realtimeSecondsPerHour wall-clock
// seconds per simulated hour, the same throttling pattern the teacher
// applies to outbound API calls, here governing an output stream
// instead.
func printEventLog(events []event.Record, realtime bool, secondsPerHour float64) error {
	if !realtime {
		for _, e := range events {
			printEventLine(e)
		}
		return nil
	}

	if secondsPerHour <= 0 {
		secondsPerHour = 1.0
	}
	limiter := rate.NewLimiter(rate.Limit(1.0/secondsPerHour), 1)
	ctx := context.Background()

	var prev shared.Instant
	for i, e := range events {
		if i > 0 {
			hours := e.At.Sub(prev).Hours()
			if hours > 0 {
				burst := int(hours) + 1
				for b := 0; b < burst; b++ {
					if err := limiter.Wait(ctx); err != nil {
						return fmt.Errorf("realtime pacing: %w", err)
					}
				}
			}
		}
		printEventLine(e)
		prev = e.At
	}
	return nil
}

func printEventLine(e event.Record) {
	tank := "-"
	if e.TankID != nil {
		tank = fmt.Sprintf("%d", *e.TankID)
	}
	fmt.Printf("[%s] %-7s tank=%-3s %-24s %s\n", e.At.Format(), e.Level, tank, e.EventName(), e.Message)
}

func printDailySummary(rows []event.DailySummaryRow) {
	fmt.Println("\n--- Daily Summary ---")
	for _, row := range rows {
		fmt.Printf("%s  opening=%.0f certified=%.0f uncertified=%.0f processed=%.0f closing=%.0f ready=%d empty=%d\n",
			row.Date.Format(), row.OpeningGrossStock, row.OpeningCertifiedStk, row.OpeningUncertStk,
			row.ProcessedVolume, row.ClosingGrossStock, row.ReadyTanks, row.EmptyTanks)
	}
}

func printCargoReport(rows []event.CargoReportRow) {
	fmt.Println("\n--- Cargo Report ---")
	for _, row := range rows {
		gap := "N/A"
		if row.BerthGapKnown {
			gap = fmt.Sprintf("%.2f", row.BerthGapHours)
		}
		fmt.Printf("%s (%s) berth=%d arrival=%s discharge=%s-%s gap=%s vol=%.0f tanks=%.2f\n",
			row.VesselName, row.CargoType, row.Berth, row.ArrivalAt.Format(),
			row.DischargeStartAt.Format(), row.DischargeEndAt.Format(), gap,
			row.TotalVolumeDischarged, row.TanksFilled)
		for _, fill := range row.TankFills {
			fmt.Printf("  Tank%d: %s-%s (%.0f bbl)\n", fill.TankID, fill.Start.Format(), fill.End.Format(), fill.Volume)
		}
	}
}

func persistRun(ctx context.Context, cfg *config.Config, events []event.Record, daily []event.DailySummaryRow, cargoRows []event.CargoReportRow, snapshots []event.Snapshot) error {
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	repo := persistence.NewReportRepository(db)
	_, err = repo.SaveRun(ctx, persistence.RunInput{
		Config:    cfg.Simulation,
		Events:    events,
		Daily:     daily,
		Cargo:     cargoRows,
		Snapshots: snapshots,
	})
	return err
}
