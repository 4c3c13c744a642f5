package persistence

import (
	"time"
)

// SimulationRunModel represents the simulation_runs table
type SimulationRunModel struct {
	ID           string     `gorm:"column:id;primaryKey;not null"`
	Status       string     `gorm:"column:status;not null"`
	Width        int        `gorm:"column:width;not null"`
	Height       int        `gorm:"column:height;not null"`
	TerrainSeed  int64      `gorm:"column:terrain_seed"`
	ResourceSeed int64      `gorm:"column:resource_seed"`
	AgentCount   int        `gorm:"column:agent_count"`
	Ticks        int        `gorm:"column:ticks;default:0"`
	Merges       int        `gorm:"column:merges;default:0"`
	TilesMerged  int        `gorm:"column:tiles_merged;default:0"`
	ScienceValue uint       `gorm:"column:science_value;default:0"`
	Shutdowns    int        `gorm:"column:shutdowns;default:0"`
	Stats        string     `gorm:"column:stats;type:text"` // JSON as text: events, collected, shutdown reasons
	Error        string     `gorm:"column:error;type:text"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"`
	StartedAt    *time.Time `gorm:"column:started_at"`
	EndedAt      *time.Time `gorm:"column:ended_at"`
}

func (SimulationRunModel) TableName() string {
	return "simulation_runs"
}

// AgentLogModel represents the agent_logs table
type AgentLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index"`
	Scope     string    `gorm:"column:scope;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (AgentLogModel) TableName() string {
	return "agent_logs"
}
