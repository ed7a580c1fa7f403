package migration

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// Strategy defines the interface for different migration strategies
type Strategy interface {
	Migrate(ctx context.Context, db *gorm.DB) error
	GetName() string
}

// GooseStrategy runs the versioned SQL scripts embedded in the binary.
type GooseStrategy struct {
	driver string
	logger logger.Interface
}

func NewGooseStrategy(driver string, log logger.Interface) *GooseStrategy {
	return &GooseStrategy{
		driver: driver,
		logger: log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

func (s *GooseStrategy) prepare() error {
	goose.SetBaseFS(scriptsFS)
	goose.SetLogger(gooseLogger{s.logger})
	if err := goose.SetDialect(gooseDialect(s.driver)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	if err := s.prepare(); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	currentVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	s.logger.Infow("current migration status", "version", currentVersion, "driver", s.driver)

	if err := goose.UpContext(ctx, sqlDB, scriptsDir(s.driver)); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)

	return nil
}

func (s *GooseStrategy) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	if err := s.prepare(); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	s.logger.Infow("starting down migration", "steps", steps)
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, sqlDB, scriptsDir(s.driver)); err != nil {
			s.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully")
	return nil
}

func (s *GooseStrategy) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	if err := s.prepare(); err != nil {
		return 0, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) error {
	if err := s.prepare(); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := goose.StatusContext(ctx, sqlDB, scriptsDir(s.driver)); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}

// GormAutoMigrateStrategy derives the schema from the gorm models. Meant for
// development and throwaway sqlite stores.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

func (s *GormAutoMigrateStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	all := models.All()
	s.logger.Infow("starting gorm auto migration", "models_count", len(all))

	if err := db.WithContext(ctx).AutoMigrate(all...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the service logger.
type gooseLogger struct {
	logger logger.Interface
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Infow(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalw(fmt.Sprintf(format, v...))
}
