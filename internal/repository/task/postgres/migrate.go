package postgres

import (
	"candidateTasks/internal/logger"
	"candidateTasks/internal/migrations"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

func (s *Storage) newMigrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("создание мигратора: %w", err)
	}
	return m, nil
}

// Migrate применяет все новые миграции
func (s *Storage) Migrate() error {
	logger.Info("Repository: Применение миграций")
	return s.runMigration("применение миграций", (*migrate.Migrate).Up)
}

// Down откатывает все миграции
func (s *Storage) Down() error {
	logger.Info("Repository: Откат миграций")
	return s.runMigration("откат миграций", (*migrate.Migrate).Down)
}

func (s *Storage) runMigration(action string, run func(*migrate.Migrate) error) error {
	m, err := s.newMigrator()
	if err != nil {
		logger.Error("Repository: Не удалось подготовить миграции", err)
		return err
	}
	defer m.Close()

	if err := run(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка миграции", err, zap.String("action", action))
		return fmt.Errorf("%s: %w", action, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}
	logger.Info("Repository: Миграции выполнены", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
