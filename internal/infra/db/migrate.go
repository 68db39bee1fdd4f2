package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate は埋め込みSQLで未適用のマイグレーションを実行する。
func Migrate(sqlDB *sql.DB, log *zap.Logger) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	log.Info("checking for pending migrations")

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("migrations completed")
	return nil
}
