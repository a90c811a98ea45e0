package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/logging"
)

var DB *sqlx.DB

// InitSQL opens the sqlx handle used for health checks and API key lookups.
// Postgres gets its own lib/pq pool; SQLite shares the ORM's single connection
// since a second pool would see a different in-memory database.
func InitSQL(cfg config.DatabaseConfig, orm *gorm.DB) (*sqlx.DB, error) {
	if cfg.Driver == "sqlite" {
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		DB = sqlx.NewDb(sqlDB, "sqlite3")
		return DB, nil
	}

	if err := InitPostgres(cfg); err != nil {
		return nil, err
	}
	return DB, nil
}

func InitPostgres(cfg config.DatabaseConfig) error {
	var err error

	for i := 0; i < 10; i++ {
		DB, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			logging.Info("Connected to Postgres via sqlx", "host", cfg.Host, "db", cfg.Name)
			return nil
		}
		logging.Warn("Postgres not ready, retrying", "attempt", i+1, "error", err.Error())
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("failed to connect to postgres: %w", err)
}
