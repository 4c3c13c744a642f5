package config

import "time"

// SimulationConfig describes the world and the swarm
type SimulationConfig struct {
	Width         int   `mapstructure:"width" validate:"min=3"`
	Height        int   `mapstructure:"height" validate:"min=3"`
	TerrainSeed   int64 `mapstructure:"terrain_seed"`
	ResourceSeed  int64 `mapstructure:"resource_seed"`
	ResourceCount int   `mapstructure:"resource_count" validate:"min=0"`
	AgentSeed     int64 `mapstructure:"agent_seed"`

	Explorers  int `mapstructure:"explorers" validate:"min=0"`
	Collectors int `mapstructure:"collectors" validate:"min=0"`
	Scientists int `mapstructure:"scientists" validate:"min=0"`

	// Loop cadence of the event drain
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Run length; zero runs until interrupted
	Duration time.Duration `mapstructure:"duration" validate:"min=0"`

	// Agents silent for longer than this are reported as stalled
	StallTimeout        time.Duration `mapstructure:"stall_timeout"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
}

// StationConfig holds the docking protocol settings
type StationConfig struct {
	// How long a docked agent waits for its merge reply
	MergeTimeout time.Duration `mapstructure:"merge_timeout" validate:"required"`

	DockSleep time.Duration `mapstructure:"dock_sleep"`
}

// RenderConfig controls the terminal frame renderer
type RenderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Color    bool          `mapstructure:"color"`
}
