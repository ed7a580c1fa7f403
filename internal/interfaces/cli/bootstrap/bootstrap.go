// Package bootstrap holds the startup steps shared by every command.
package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/piprapay/ppgateway/internal/infrastructure/config"
	"github.com/piprapay/ppgateway/internal/infrastructure/database"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// Flags common to all commands.
type Flags struct {
	Env        string
	ConfigPath string
}

// Environment is a loaded configuration with an initialised logger and an
// open database.
type Environment struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
}

// Load reads the configuration and initialises the process logger.
func Load(flags Flags) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(MapEnvToGinMode(flags.Env), flags.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Open loads the configuration and connects to the database. Close must be
// called when done.
func Open(flags Flags) (*Environment, error) {
	cfg, log, err := Load(flags)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Environment{Config: cfg, Log: log, DB: db}, nil
}

func (e *Environment) Close() {
	if err := database.Close(e.DB); err != nil {
		e.Log.Warnw("failed to close database", "error", err)
	}
}

// MapEnvToGinMode turns a deployment environment name into a gin mode. An
// empty name keeps the configured mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "development", "dev", "debug":
		return "debug"
	case "test", "testing":
		return "test"
	default:
		return ""
	}
}
