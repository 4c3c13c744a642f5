package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/infrastructure/config"
)

func defaultFileConfig() *config.Config {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	return cfg
}

func TestToSimulationConfig_MapsDefaults(t *testing.T) {
	cfg := defaultFileConfig()

	sim, err := toSimulationConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 90, sim.Width)
	assert.Equal(t, 15, sim.Height)
	assert.Equal(t, int64(34), sim.TerrainSeed)
	assert.Equal(t, int64(45), sim.ResourceSeed)
	assert.Equal(t, 5, sim.Agents.Total())
	assert.Equal(t, shared.ResourceMinerals, sim.CollectorTarget)
	assert.Equal(t, 3*time.Second, sim.Runtime.MergeTimeout)
	assert.Equal(t, agent.DefaultRoleConfig(agent.RoleExplorer), sim.RoleConfigs[agent.RoleExplorer])
	assert.Equal(t, agent.DefaultRoleConfig(agent.RoleCollector), sim.RoleConfigs[agent.RoleCollector])
	assert.Equal(t, agent.DefaultScienceModules(), sim.ScienceModules)
}

func TestToSimulationConfig_ParsesCollectorTarget(t *testing.T) {
	cfg := defaultFileConfig()
	cfg.Agents.CollectorTarget = "energy"

	sim, err := toSimulationConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, shared.ResourceEnergy, sim.CollectorTarget)
}

func TestToSimulationConfig_RejectsUnknownTarget(t *testing.T) {
	cfg := defaultFileConfig()
	cfg.Agents.CollectorTarget = "plutonium"

	_, err := toSimulationConfig(cfg)

	assert.Error(t, err)
}
