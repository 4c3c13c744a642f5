package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
)

// runStatsJSON is the serialized form of the map-valued counters
type runStatsJSON struct {
	Events          map[string]int  `json:"events"`
	Collected       map[string]uint `json:"collected"`
	ShutdownReasons map[string]int  `json:"shutdown_reasons"`
}

// GormSimulationRunRepository implements simulation.RunRepository
type GormSimulationRunRepository struct {
	db *gorm.DB
}

// NewGormSimulationRunRepository creates a new run repository
func NewGormSimulationRunRepository(db *gorm.DB) *GormSimulationRunRepository {
	return &GormSimulationRunRepository{db: db}
}

// Save inserts or updates a run summary
func (r *GormSimulationRunRepository) Save(ctx context.Context, run *simulation.RunRecord) error {
	model, err := r.runToModel(run)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, result.Error)
	}
	return nil
}

// FindByID loads a run summary
func (r *GormSimulationRunRepository) FindByID(ctx context.Context, id string) (*simulation.RunRecord, error) {
	var model SimulationRunModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", id, simulation.ErrRunNotFound)
		}
		return nil, fmt.Errorf("failed to find run: %w", result.Error)
	}
	return r.modelToRun(&model)
}

// ListRecent returns the newest runs first
func (r *GormSimulationRunRepository) ListRecent(ctx context.Context, limit int) ([]*simulation.RunRecord, error) {
	var models []SimulationRunModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*simulation.RunRecord, 0, len(models))
	for i := range models {
		run, err := r.modelToRun(&models[i])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (r *GormSimulationRunRepository) runToModel(run *simulation.RunRecord) (*SimulationRunModel, error) {
	stats := runStatsJSON{
		Events:          make(map[string]int, len(run.Stats.Events)),
		Collected:       make(map[string]uint, len(run.Stats.Collected)),
		ShutdownReasons: run.Stats.ShutdownReasons,
	}
	for kind, n := range run.Stats.Events {
		stats.Events[string(kind)] = n
	}
	for t, amount := range run.Stats.Collected {
		stats.Collected[t.String()] = amount
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run stats: %w", err)
	}

	return &SimulationRunModel{
		ID:           run.ID,
		Status:       string(run.Status),
		Width:        run.Width,
		Height:       run.Height,
		TerrainSeed:  run.TerrainSeed,
		ResourceSeed: run.ResourceSeed,
		AgentCount:   run.Agents,
		Ticks:        run.Stats.Ticks,
		Merges:       run.Stats.Merges,
		TilesMerged:  run.Stats.TilesMerged,
		ScienceValue: run.Stats.ScienceValue,
		Shutdowns:    run.Stats.Shutdowns,
		Stats:        string(statsJSON),
		Error:        run.Error,
		CreatedAt:    run.CreatedAt,
		StartedAt:    run.StartedAt,
		EndedAt:      run.EndedAt,
	}, nil
}

func (r *GormSimulationRunRepository) modelToRun(model *SimulationRunModel) (*simulation.RunRecord, error) {
	stats := simulation.NewStats()
	stats.Ticks = model.Ticks
	stats.Merges = model.Merges
	stats.TilesMerged = model.TilesMerged
	stats.ScienceValue = model.ScienceValue
	stats.Shutdowns = model.Shutdowns

	if model.Stats != "" {
		var decoded runStatsJSON
		if err := json.Unmarshal([]byte(model.Stats), &decoded); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run stats: %w", err)
		}
		for kind, n := range decoded.Events {
			stats.Events[agent.EventKind(kind)] = n
		}
		for name, amount := range decoded.Collected {
			t, err := shared.ParseResourceType(name)
			if err != nil {
				return nil, err
			}
			stats.Collected[t] = amount
		}
		for reason, n := range decoded.ShutdownReasons {
			stats.ShutdownReasons[reason] = n
		}
	}

	return &simulation.RunRecord{
		ID:           model.ID,
		Status:       simulation.RunStatus(model.Status),
		Width:        model.Width,
		Height:       model.Height,
		TerrainSeed:  model.TerrainSeed,
		ResourceSeed: model.ResourceSeed,
		Agents:       model.AgentCount,
		Stats:        *stats,
		Error:        model.Error,
		CreatedAt:    model.CreatedAt,
		StartedAt:    model.StartedAt,
		EndedAt:      model.EndedAt,
	}, nil
}

var _ simulation.RunRepository = (*GormSimulationRunRepository)(nil)
