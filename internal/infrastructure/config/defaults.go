package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.Width == 0 {
		cfg.Simulation.Width = 90
	}
	if cfg.Simulation.Height == 0 {
		cfg.Simulation.Height = 15
	}
	if cfg.Simulation.TerrainSeed == 0 {
		cfg.Simulation.TerrainSeed = 34
	}
	if cfg.Simulation.ResourceSeed == 0 {
		cfg.Simulation.ResourceSeed = 45
	}
	if cfg.Simulation.ResourceCount == 0 {
		cfg.Simulation.ResourceCount = 20
	}
	if cfg.Simulation.AgentSeed == 0 {
		cfg.Simulation.AgentSeed = 1
	}
	if cfg.Simulation.Explorers == 0 && cfg.Simulation.Collectors == 0 && cfg.Simulation.Scientists == 0 {
		cfg.Simulation.Explorers = 2
		cfg.Simulation.Collectors = 2
		cfg.Simulation.Scientists = 1
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = 100 * time.Millisecond
	}
	if cfg.Simulation.StallTimeout == 0 {
		cfg.Simulation.StallTimeout = 10 * time.Second
	}
	if cfg.Simulation.HealthCheckInterval == 0 {
		cfg.Simulation.HealthCheckInterval = time.Second
	}

	// Agent defaults
	setRoleDefaults(&cfg.Agents.Explorer, RoleConfig{
		MaxEnergy: 800, LowEnergyThreshold: 20, MovementCost: 1, MaxCapacity: 700,
		SleepMin: 300 * time.Millisecond, SleepMax: 600 * time.Millisecond,
	})
	setRoleDefaults(&cfg.Agents.Collector, RoleConfig{
		MaxEnergy: 500, LowEnergyThreshold: 25, MovementCost: 2, ActionCost: 3, MaxCapacity: 700,
		SleepMin: 400 * time.Millisecond, SleepMax: 900 * time.Millisecond,
	})
	setRoleDefaults(&cfg.Agents.Scientist, RoleConfig{
		MaxEnergy: 500, LowEnergyThreshold: 30, MovementCost: 1, ActionCost: 5, MaxCapacity: 700,
		SleepMin: 800 * time.Millisecond, SleepMax: 1500 * time.Millisecond,
	})
	if cfg.Agents.ReturnSleepMin == 0 {
		cfg.Agents.ReturnSleepMin = 150 * time.Millisecond
	}
	if cfg.Agents.ReturnSleepMax == 0 {
		cfg.Agents.ReturnSleepMax = 400 * time.Millisecond
	}
	if cfg.Agents.CollectorTarget == "" {
		cfg.Agents.CollectorTarget = "minerals"
	}
	if cfg.Agents.ScienceModules == nil {
		cfg.Agents.ScienceModules = []ScienceModuleConfig{
			{Name: "spectrometer", ScienceBonus: 5, EnergyCost: 1},
			{Name: "core-drill", ScienceBonus: 10, EnergyCost: 2},
		}
	}

	// Station defaults
	if cfg.Station.MergeTimeout == 0 {
		cfg.Station.MergeTimeout = 3 * time.Second
	}
	if cfg.Station.DockSleep == 0 {
		cfg.Station.DockSleep = 100 * time.Millisecond
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = time.Second
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = ":memory:"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "swarm"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "swarm"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Render defaults
	if cfg.Render.Interval == 0 {
		cfg.Render.Interval = 250 * time.Millisecond
	}
}

// setRoleDefaults fills unset fields of rc from def. A zero action cost or
// threshold is a legal setting, so those are only filled when the whole block
// is empty.
func setRoleDefaults(rc *RoleConfig, def RoleConfig) {
	if *rc == (RoleConfig{}) {
		*rc = def
		return
	}
	if rc.MaxEnergy == 0 {
		rc.MaxEnergy = def.MaxEnergy
	}
	if rc.MovementCost == 0 {
		rc.MovementCost = def.MovementCost
	}
	if rc.MaxCapacity == 0 {
		rc.MaxCapacity = def.MaxCapacity
	}
	if rc.SleepMin == 0 && rc.SleepMax == 0 {
		rc.SleepMin, rc.SleepMax = def.SleepMin, def.SleepMax
	}
}
