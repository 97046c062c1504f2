package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/smartgrocer/internal/reminder"
)

type Config struct {
	ListenAddr     string
	StorePath      string
	HistoryDBPath  string
	PlannerBackend string
	PlannerTimeout time.Duration
	OllamaHost     string
	OllamaModel    string
	ClaudeAPIKey   string
	ClaudeModel    string
	Thresholds     reminder.Thresholds
	ThresholdsFile string
	LogLevel       string
	LogFile        string
}

// Load reads configuration from the environment. Reminder thresholds may
// additionally come from a YAML file (THRESHOLDS_FILE), since per-category
// low-stock levels do not map onto flat environment variables; file values
// override the environment ones.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		StorePath:      getEnv("STORE_PATH", "/data/inventory.json"),
		HistoryDBPath:  getEnv("HISTORY_DB_PATH", "/data/history.db"),
		PlannerBackend: getEnv("PLANNER_BACKEND", "local"),
		PlannerTimeout: time.Duration(getEnvInt("PLANNER_TIMEOUT_SECONDS", 30)) * time.Second,
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-opus-4-6"),
		ThresholdsFile: getEnv("THRESHOLDS_FILE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}

	cfg.Thresholds = reminder.DefaultThresholds()
	cfg.Thresholds.ExpiringSoonDays = getEnvInt("EXPIRING_SOON_DAYS", cfg.Thresholds.ExpiringSoonDays)
	if v, ok := os.LookupEnv("LOW_STOCK_QUANTITY"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LOW_STOCK_QUANTITY %q: %w", v, err)
		}
		cfg.Thresholds.LowStockQuantity = f
	}

	if cfg.ThresholdsFile != "" {
		if err := loadThresholdsFile(cfg.ThresholdsFile, &cfg.Thresholds); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func loadThresholdsFile(path string, t *reminder.Thresholds) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read thresholds file: %w", err)
	}

	var file reminder.Thresholds
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse thresholds file %s: %w", path, err)
	}

	if file.ExpiringSoonDays > 0 {
		t.ExpiringSoonDays = file.ExpiringSoonDays
	}
	if file.LowStockQuantity > 0 {
		t.LowStockQuantity = file.LowStockQuantity
	}
	if len(file.LowStockByCategory) > 0 {
		t.LowStockByCategory = file.LowStockByCategory
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
