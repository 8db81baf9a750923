package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/push-to-notion/internal/db/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const mysqlScheme = "mysql://"

// InitDB opens the account database and runs migrations.
// A DSN prefixed with mysql:// selects MySQL, anything else is a SQLite path.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	slog.Info("database ready", "driver", db.Dialector.Name())
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func dialector(dsn string) gorm.Dialector {
	if rest, ok := strings.CutPrefix(dsn, mysqlScheme); ok {
		return mysql.Open(rest)
	}
	return sqlite.Open(dsn)
}
