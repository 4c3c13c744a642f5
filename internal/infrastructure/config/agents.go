package config

import "time"

// AgentsConfig holds per-role tuning
type AgentsConfig struct {
	Explorer  RoleConfig `mapstructure:"explorer"`
	Collector RoleConfig `mapstructure:"collector"`
	Scientist RoleConfig `mapstructure:"scientist"`

	ReturnSleepMin time.Duration `mapstructure:"return_sleep_min"`
	ReturnSleepMax time.Duration `mapstructure:"return_sleep_max" validate:"gtefield=ReturnSleepMin"`

	// Resource type collectors gather: energy or minerals
	CollectorTarget string `mapstructure:"collector_target" validate:"required,oneof=energy minerals science_points"`

	ScienceModules []ScienceModuleConfig `mapstructure:"science_modules" validate:"dive"`
}

// RoleConfig mirrors the domain role tuning
type RoleConfig struct {
	MaxEnergy          uint          `mapstructure:"max_energy" validate:"min=1"`
	LowEnergyThreshold uint          `mapstructure:"low_energy_threshold" validate:"ltfield=MaxEnergy"`
	MovementCost       uint          `mapstructure:"movement_cost"`
	ActionCost         uint          `mapstructure:"action_cost"`
	MaxCapacity        uint          `mapstructure:"max_capacity" validate:"min=1"`
	SleepMin           time.Duration `mapstructure:"sleep_min"`
	SleepMax           time.Duration `mapstructure:"sleep_max" validate:"gtefield=SleepMin"`
}

// ScienceModuleConfig describes one scientist module
type ScienceModuleConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	ScienceBonus uint   `mapstructure:"science_bonus"`
	EnergyCost   uint   `mapstructure:"energy_cost"`
}
