package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/swarm-go/internal/adapters/metrics"
	"github.com/andrescamacho/swarm-go/internal/adapters/persistence"
	"github.com/andrescamacho/swarm-go/internal/adapters/render"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/mediator"
	"github.com/andrescamacho/swarm-go/internal/application/setup"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/infrastructure/config"
	"github.com/andrescamacho/swarm-go/internal/infrastructure/database"
)

const journalDedupWindow = 2 * time.Second

// app is the wired application behind one CLI invocation
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	mediator mediator.Mediator
	db       *gorm.DB
	server   *metrics.Server
}

// newApp loads configuration and wires logging, persistence, metrics and the
// mediator. close must be called when done.
func newApp(withMetrics bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	a := &app{cfg: cfg, logger: newConsoleLogger(cfg.Logging)}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	a.db = db

	clock := shared.NewRealClock()
	runRepo := persistence.NewGormSimulationRunRepository(db)
	var journal setup.JournalStore
	if cfg.Logging.Journal {
		journal = persistence.NewGormAgentLogRepository(db, clock, journalDedupWindow)
	}

	renderer := render.NewRenderer(os.Stdout, cfg.Render.Color)

	var requestMetrics *metrics.RequestMetricsCollector
	if withMetrics && cfg.Metrics.Enabled {
		metrics.InitRegistry()
		requestMetrics = metrics.NewRequestMetricsCollector()
		if err := requestMetrics.Register(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to register request metrics: %w", err)
		}
		server, err := metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			a.close()
			return nil, err
		}
		server.Start()
		a.server = server
		a.logger.Log(logging.LevelInfo, "Metrics server listening", map[string]interface{}{
			"addr": server.Addr(),
			"path": cfg.Metrics.Path,
		})
	}

	registry := setup.NewHandlerRegistry(runRepo, journal, renderer, clock)
	m, err := registry.CreateConfiguredMediator(requestMetrics)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	a.mediator = m

	return a, nil
}

// context carries the console logger
func (a *app) context(parent context.Context) context.Context {
	return logging.WithLogger(parent, a.logger)
}

func (a *app) close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.server.Shutdown(ctx)
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
}

func newConsoleLogger(cfg config.LoggingConfig) logging.Logger {
	var out io.Writer = os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}
	return logging.NewConsoleLogger(out, strings.ToUpper(cfg.Level), cfg.Color)
}
