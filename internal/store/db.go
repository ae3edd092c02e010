package store

import (
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
)

// Connect opens a GORM database connection using APP_DATABASE_URL (PostgreSQL URL).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		return nil, eris.New("APP_DATABASE_URL is required (PostgreSQL URL)")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil, eris.New("APP_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, eris.Wrap(err, "store: open database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate auto-migrates the sample tables and the auth tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&SocialSnapshot{},
		&AppDownloadSnapshot{},
		&WebsiteSnapshot{},
		&ManualEntry{},
		&User{},
		&APIKey{},
	)
	if err != nil {
		return eris.Wrap(err, "store: auto-migrate")
	}
	return nil
}
