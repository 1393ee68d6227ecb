package storage

import (
	"fmt"

	"github.com/fedguard/appealbot/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDB connects to Postgres when a DSN is configured and falls back to the
// local SQLite file otherwise.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.PostgresDSN != "" {
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return db, nil
	}

	logrus.Infof("no postgres dsn configured, using sqlite database %q", cfg.SQLitePath)

	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return db, nil
}
