package database

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tg-miniapp-backend/internal/config"
	"tg-miniapp-backend/internal/migration"
)

// Open connects to postgres and verifies the connection. DB_DRIVER selects pgx (default) or lib/pq.
func Open(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	dialector := postgres.Open(cfg.DatabaseURL)
	if cfg.DBDriver == "postgres" {
		dialector = postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.DatabaseURL,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewLogger(log).LogMode(ParseLogLevel(cfg.DBLogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Initialize opens the database and runs pending migrations.
func Initialize(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := migration.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("Database connected and migrated successfully")
	return db, nil
}
