package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort     = 8000
	defaultGridSize = 10
	defaultLogLevel = "info"

	// looked up under $XDG_CONFIG_HOME and $XDG_CONFIG_DIRS
	userEnvFile = "battleship/battleship.env"
)

type Config struct {
	Stage       string
	Port        int
	DatabaseURL string
	GridSize    int
	LogLevel    string
}

// Load reads the configuration from the environment. Outside of prod the
// `.env` file of the working directory and the per-user env file are loaded
// first; variables already set in the environment win over both.
func Load() (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := loadEnvFile(".env"); err != nil {
			return Config{}, err
		}
		if path, err := xdg.SearchConfigFile(userEnvFile); err == nil {
			if err := loadEnvFile(path); err != nil {
				return Config{}, err
			}
		}
	}

	cfg := Config{
		Stage:       getEnv("STAGE", StageDev),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
	}

	if cfg.Stage != StageProd && cfg.Stage != StageDev {
		return Config{}, fmt.Errorf("stage must be either dev or prod, got: %s", cfg.Stage)
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", defaultPort); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if cfg.GridSize, err = getEnvInt("GRID_SIZE", defaultGridSize); err != nil {
		return Config{}, err
	}
	if cfg.GridSize <= 0 {
		return Config{}, fmt.Errorf("invalid grid size: %d", cfg.GridSize)
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.Stage == StageProd
}

func (c Config) AnalyticsEnabled() bool {
	return c.DatabaseURL != ""
}

// A missing file is not an error; a malformed one is.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got: %s", key, raw)
	}
	return value, nil
}
