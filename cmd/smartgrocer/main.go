package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vbonduro/smartgrocer/internal/config"
	"github.com/vbonduro/smartgrocer/internal/db"
	"github.com/vbonduro/smartgrocer/internal/inventory"
	"github.com/vbonduro/smartgrocer/internal/logging"
	"github.com/vbonduro/smartgrocer/internal/planner"
	claudeplanner "github.com/vbonduro/smartgrocer/internal/planner/claude"
	localplanner "github.com/vbonduro/smartgrocer/internal/planner/local"
	ollamaplanner "github.com/vbonduro/smartgrocer/internal/planner/ollama"
	"github.com/vbonduro/smartgrocer/internal/service"
	"github.com/vbonduro/smartgrocer/internal/store"
	"github.com/vbonduro/smartgrocer/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0750); err != nil {
		logger.Error("failed to create data directory", "error", err)
		return
	}

	database, err := db.Open(cfg.HistoryDBPath)
	if err != nil {
		logger.Error("failed to open history database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close history database", "error", err)
		}
	}()

	fileStore, err := store.NewFileStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to initialize inventory store", "error", err)
		return
	}

	inv, err := inventory.NewManager(fileStore, logger)
	if err != nil {
		logger.Error("failed to load inventory", "error", err)
		return
	}

	mealPlanner, backend := newPlanner(cfg, logger)
	if mealPlanner == nil {
		return
	}

	svc := service.NewGrocerService(inv, store.NewHistoryStore(database), mealPlanner,
		backend, cfg.Thresholds, cfg.PlannerTimeout, logger)
	server := web.NewServer(svc, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newPlanner(cfg *config.Config, logger *slog.Logger) (planner.Planner, string) {
	switch cfg.PlannerBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when PLANNER_BACKEND=claude")
			return nil, ""
		}
		logger.Info("using Claude meal planner", "model", cfg.ClaudeModel)
		return claudeplanner.NewClaudePlanner(cfg.ClaudeAPIKey, cfg.ClaudeModel), "claude"
	case "ollama":
		logger.Info("using Ollama meal planner", "model", cfg.OllamaModel)
		return ollamaplanner.NewOllamaPlanner(cfg.OllamaHost, cfg.OllamaModel), "ollama"
	default:
		logger.Info("using local meal planner")
		return localplanner.NewLocalPlanner(), "local"
	}
}
