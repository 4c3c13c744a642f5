package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// GormAgentLogRepository persists journal entries for simulation runs
type GormAgentLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// Deduplication cache
	dedupCache   map[string]time.Time // key: runID+scope+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormAgentLogRepository creates a new agent log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormAgentLogRepository(db *gorm.DB, clock shared.Clock, dedupWindow time.Duration) *GormAgentLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormAgentLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  dedupWindow,
		dedupMaxSize: 10000,
	}
}

// Append writes an entry unless the same scope logged the same message within
// the dedup window. Agents repeat their status lines every tick; only the
// first of each burst is kept.
func (r *GormAgentLogRepository) Append(ctx context.Context, entry logging.Entry) error {
	now := entry.Timestamp
	if now.IsZero() {
		now = r.clock.Now()
	}
	cacheKey := entry.RunID + "|" + entry.Scope + "|" + entry.Message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(entry.Metadata) > 0 {
		if jsonBytes, err := json.Marshal(entry.Metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	model := &AgentLogModel{
		RunID:     entry.RunID,
		Scope:     entry.Scope,
		Timestamp: now,
		Level:     entry.Level,
		Message:   entry.Message,
		Metadata:  metadataJSON,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// cleanupDedupCache removes old entries from the deduplication cache
// Must be called while holding dedupMu lock
func (r *GormAgentLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves the newest entries of a run, optionally filtered by level
// and scope
func (r *GormAgentLogRepository) GetLogs(ctx context.Context, runID string, limit int, level, scope *string) ([]logging.Entry, error) {
	var models []AgentLogModel

	query := r.db.WithContext(ctx).Where("run_id = ?", runID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if scope != nil {
		query = query.Where("scope = ?", *scope)
	}
	query = query.Order("timestamp DESC, id DESC").Limit(limit)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]logging.Entry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = logging.Entry{
			RunID:     model.RunID,
			Scope:     model.Scope,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}

// CountByLevel summarizes a run's journal
func (r *GormAgentLogRepository) CountByLevel(ctx context.Context, runID string) (map[string]int64, error) {
	var rows []struct {
		Level string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&AgentLogModel{}).
		Select("level, COUNT(*) AS count").
		Where("run_id = ?", runID).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Level] = row.Count
	}
	return counts, nil
}

var _ logging.JournalSink = (*GormAgentLogRepository)(nil)
