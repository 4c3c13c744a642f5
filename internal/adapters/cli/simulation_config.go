package cli

import (
	"fmt"

	"github.com/andrescamacho/swarm-go/internal/application/swarm"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/infrastructure/config"
)

// toSimulationConfig maps the validated file/env configuration onto the
// simulation's own config type
func toSimulationConfig(cfg *config.Config) (swarm.Config, error) {
	target, err := shared.ParseResourceType(cfg.Agents.CollectorTarget)
	if err != nil {
		return swarm.Config{}, fmt.Errorf("invalid collector target: %w", err)
	}

	modules := make([]agent.ScienceModule, 0, len(cfg.Agents.ScienceModules))
	for _, m := range cfg.Agents.ScienceModules {
		modules = append(modules, agent.ScienceModule{
			Name:         m.Name,
			ScienceBonus: m.ScienceBonus,
			EnergyCost:   m.EnergyCost,
		})
	}

	sim := cfg.Simulation
	return swarm.Config{
		Width:         sim.Width,
		Height:        sim.Height,
		TerrainSeed:   sim.TerrainSeed,
		ResourceSeed:  sim.ResourceSeed,
		ResourceCount: sim.ResourceCount,
		AgentSeed:     sim.AgentSeed,
		Agents: swarm.RoleCounts{
			Explorers:  sim.Explorers,
			Collectors: sim.Collectors,
			Scientists: sim.Scientists,
		},
		RoleConfigs: map[agent.Role]agent.RoleConfig{
			agent.RoleExplorer:  toRoleConfig(cfg.Agents.Explorer),
			agent.RoleCollector: toRoleConfig(cfg.Agents.Collector),
			agent.RoleScientist: toRoleConfig(cfg.Agents.Scientist),
		},
		CollectorTarget: target,
		ScienceModules:  modules,
		Runtime: swarm.RuntimeConfig{
			MergeTimeout:   cfg.Station.MergeTimeout,
			DockSleep:      cfg.Station.DockSleep,
			ReturnSleepMin: cfg.Agents.ReturnSleepMin,
			ReturnSleepMax: cfg.Agents.ReturnSleepMax,
		},
		TickInterval:        sim.TickInterval,
		StallTimeout:        sim.StallTimeout,
		HealthCheckInterval: sim.HealthCheckInterval,
	}, nil
}

func toRoleConfig(rc config.RoleConfig) agent.RoleConfig {
	return agent.RoleConfig{
		MaxEnergy:          rc.MaxEnergy,
		LowEnergyThreshold: rc.LowEnergyThreshold,
		MovementCost:       rc.MovementCost,
		ActionCost:         rc.ActionCost,
		MaxCapacity:        rc.MaxCapacity,
		SleepMin:           rc.SleepMin,
		SleepMax:           rc.SleepMax,
	}
}
