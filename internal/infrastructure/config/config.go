// Package config loads and validates a simulation run's configuration,
// layering environment variables over a config file over defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full input to a single simulation run.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig is the engine's own input, mirroring the external
// contract's field list.
type SimulationConfig struct {
	ProcessingRateBblDay float64 `mapstructure:"processing_rate_bbl_day" validate:"required,gt=0"`
	NumTanks             int     `mapstructure:"num_tanks" validate:"required,gt=0"`
	StartDatetime        string  `mapstructure:"start_datetime" validate:"required"`
	HorizonDays          float64 `mapstructure:"horizon_days" validate:"required,gt=0"`

	UsablePerTank  float64 `mapstructure:"usable_per_tank" validate:"required,gt=0"`
	DeadBottom     float64 `mapstructure:"dead_bottom" validate:"gte=0"`
	BufferVolume   float64 `mapstructure:"buffer_volume" validate:"gte=0"`

	InitialTankVolumes map[int]float64 `mapstructure:"initial_tank_volumes"`

	SettlingDays float64 `mapstructure:"settling_days" validate:"gte=0"`
	LabHours     float64 `mapstructure:"lab_hours" validate:"gte=0"`

	DischargeRateBblHr float64 `mapstructure:"discharge_rate_bbl_hr" validate:"required,gt=0"`

	SnapshotIntervalMinutes int `mapstructure:"snapshot_interval_minutes" validate:"required,gt=0"`

	MinReadyTanks      int `mapstructure:"min_ready_tanks" validate:"gte=0"`
	FirstCargoMinReady int `mapstructure:"first_cargo_min_ready" validate:"gte=0"`
	FirstCargoMaxReady int `mapstructure:"first_cargo_max_ready" validate:"gte=0"`

	TankGapHours     float64 `mapstructure:"tank_gap_hours" validate:"gte=0"`
	TankFillGapHours float64 `mapstructure:"tank_fill_gap_hours" validate:"gte=0"`

	BerthGapHoursMin float64 `mapstructure:"berth_gap_hours_min" validate:"gte=0"`
	BerthGapHoursMax float64 `mapstructure:"berth_gap_hours_max" validate:"gtefield=BerthGapHoursMin"`

	PreDischargeDays float64 `mapstructure:"pre_discharge_days" validate:"gte=0"`

	CargoDefs map[string]float64 `mapstructure:"cargo_defs"`

	Seed int64 `mapstructure:"seed"`

	UseSolverPlan bool        `mapstructure:"use_solver_plan"`
	SolverPlan    *SolverPlan `mapstructure:"solver_plan"`
}

// SolverPlan is the optional pre-computed optimizer output.
type SolverPlan struct {
	CargoSchedule []SolverCargo `mapstructure:"cargo_schedule"`
}

// SolverCargo is one solver-provided cargo with its per-tank
// assignments.
type SolverCargo struct {
	CargoID     string             `mapstructure:"cargo_id"`
	VesselName  string             `mapstructure:"vessel_name"`
	Type        string             `mapstructure:"type"`
	CrudeName   string             `mapstructure:"crude_name"`
	Size        float64            `mapstructure:"size"`
	Assignments []SolverAssignment `mapstructure:"assignments"`
}

// SolverAssignment is one planned (tank, volume, crude) slice.
type SolverAssignment struct {
	TankID int     `mapstructure:"tank_id"`
	Volume float64 `mapstructure:"volume"`
	Crude  string  `mapstructure:"crude"`
}

// DatabaseConfig is the optional post-run result persistence target.
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN     string `mapstructure:"dsn"`
}

// LoggingConfig holds the logging level and format. They are defaulted
// and validated; no other code in the module reads them.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// LoadConfig loads configuration with priority env > file > defaults,
// mirroring the teacher's layered viper/godotenv loader.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/tanksim")
	}

	v.SetEnvPrefix("TANKSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoadConfig loads configuration and panics on error, for use from
// main().
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// StartTime parses SimulationConfig.StartDatetime, accepted as RFC3339
// for config-file/env ergonomics (distinct from the engine-internal
// dd/MM/yyyy HH:mm display format used on output streams).
func (s SimulationConfig) StartTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s.StartDatetime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_datetime %q: %w", s.StartDatetime, err)
	}
	return t, nil
}
