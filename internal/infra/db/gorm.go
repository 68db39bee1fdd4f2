package db

import (
	"fmt"

	"storefront/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		// 一意制約違反を gorm.ErrDuplicatedKey に変換
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
	return gorm.Open(postgres.Open(dsn), gormCfg)
}

// ConnectAndMigrate は接続後に未適用のマイグレーションを流す。
func ConnectAndMigrate(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormDB, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if err := Migrate(sqlDB, log); err != nil {
		return nil, err
	}
	return gormDB, nil
}
