package config

// SetDefaults fills in any field left unset by the config file/env
// layers, mirroring the teacher's SetDefaults.
func SetDefaults(cfg *Config) {
	if cfg.Simulation.SnapshotIntervalMinutes == 0 {
		cfg.Simulation.SnapshotIntervalMinutes = 30
	}
	if cfg.Simulation.FirstCargoMinReady == 0 {
		cfg.Simulation.FirstCargoMinReady = 8
	}
	if cfg.Simulation.FirstCargoMaxReady == 0 {
		cfg.Simulation.FirstCargoMaxReady = 9
	}
	if cfg.Simulation.CargoDefs == nil {
		cfg.Simulation.CargoDefs = map[string]float64{}
	}
	if cfg.Simulation.InitialTankVolumes == nil {
		cfg.Simulation.InitialTankVolumes = map[int]float64{}
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "tanksim.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
