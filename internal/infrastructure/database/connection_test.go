package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/infrastructure/config"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(""))
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.Equal(t, "file:runs.db?_journal_mode=WAL&_busy_timeout=5000", sqliteDSN("runs.db"))
	assert.Equal(t, "file:runs.db?mode=ro", sqliteDSN("file:runs.db?mode=ro"), "explicit DSNs are kept")
}

func TestNewConnection_SqliteFileKeepsRunHistory(t *testing.T) {
	// Arrange
	cfg := &config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "runs.db")}
	db, err := NewConnection(cfg)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, Close(db))

	// Act
	reopened, err := NewConnection(cfg)
	require.NoError(t, err)
	defer func() { _ = Close(reopened) }()

	// Assert
	assert.True(t, reopened.Migrator().HasTable("simulation_runs"))
	assert.True(t, reopened.Migrator().HasTable("agent_logs"))
}

func TestNewConnection_RejectsUnknownType(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: "mysql"})

	assert.Error(t, err)
}
