package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileValuesAndDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
simulation:
  width: 40
  height: 12
  explorers: 3
  duration: 30s
agents:
  collector:
    max_energy: 300
    low_energy_threshold: 40
  collector_target: energy
station:
  merge_timeout: 500ms
`)

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Simulation.Width)
	assert.Equal(t, 12, cfg.Simulation.Height)
	assert.Equal(t, 3, cfg.Simulation.Explorers)
	assert.Equal(t, 0, cfg.Simulation.Collectors, "explicit role counts are not topped up")
	assert.Equal(t, 30*time.Second, cfg.Simulation.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.Station.MergeTimeout)
	assert.Equal(t, "energy", cfg.Agents.CollectorTarget)

	assert.Equal(t, uint(300), cfg.Agents.Collector.MaxEnergy)
	assert.Equal(t, uint(40), cfg.Agents.Collector.LowEnergyThreshold)
	assert.Equal(t, uint(2), cfg.Agents.Collector.MovementCost, "unset fields fall back to role defaults")
	assert.Equal(t, uint(700), cfg.Agents.Collector.MaxCapacity)

	assert.Equal(t, uint(800), cfg.Agents.Explorer.MaxEnergy)
	assert.Equal(t, int64(34), cfg.Simulation.TerrainSeed)
	assert.Equal(t, int64(45), cfg.Simulation.ResourceSeed)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Len(t, cfg.Agents.ScienceModules, 2)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
simulation:
  width: 40
`)
	t.Setenv("SWARM_SIMULATION_WIDTH", "64")
	t.Setenv("SWARM_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Simulation.Width)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_RejectsThresholdAboveMaxEnergy(t *testing.T) {
	path := writeConfig(t, `
agents:
  scientist:
    max_energy: 10
    low_energy_threshold: 20
`)

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LowEnergyThreshold")
}

func TestValidateConfig_RequiresAtLeastOneAgent(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	require.NoError(t, ValidateConfig(cfg))

	cfg.Simulation.Explorers = 0
	cfg.Simulation.Collectors = 0
	cfg.Simulation.Scientists = 0

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agents_required")
}

func TestSetDefaults_KeepsExplicitZeroThreshold(t *testing.T) {
	cfg := &Config{}
	cfg.Agents.Explorer = RoleConfig{MaxEnergy: 50, LowEnergyThreshold: 0}

	SetDefaults(cfg)

	assert.Equal(t, uint(50), cfg.Agents.Explorer.MaxEnergy)
	assert.Equal(t, uint(0), cfg.Agents.Explorer.LowEnergyThreshold)
	assert.Equal(t, uint(1), cfg.Agents.Explorer.MovementCost)
	assert.Equal(t, 300*time.Millisecond, cfg.Agents.Explorer.SleepMin)
}

func TestLoadConfigOrDefault_FallsBackOnBrokenFile(t *testing.T) {
	path := writeConfig(t, "simulation: [not, a, map")

	cfg := LoadConfigOrDefault(path)

	require.NotNil(t, cfg)
	assert.Equal(t, 90, cfg.Simulation.Width)
	assert.Equal(t, 3*time.Second, cfg.Station.MergeTimeout)
}
