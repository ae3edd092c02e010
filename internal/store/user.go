package store

import (
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
)

// User represents a dashboard user that can sign in and own API keys.
// The bootstrap admin user (from env) is created on startup.
type User struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	IsAdmin bool `gorm:"default:false"`
}

// APIKey is a bearer token for the JSON API. Each key belongs to a user.
type APIKey struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	UserID uint `gorm:"index;not null"`

	// Name is a user-friendly identifier for this key (e.g. "grafana").
	Name string `gorm:"size:128;not null"`

	// Key is the actual bearer token value.
	Key string `gorm:"uniqueIndex;size:255;not null"`

	Active bool `gorm:"default:true"`

	User User `gorm:"foreignKey:UserID"`
}

// EnsureBootstrapAdmin makes sure there is at least one admin user
// corresponding to the bootstrap credentials in config. If a user with
// that username already exists, it is left as-is.
func EnsureBootstrapAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&User{}).Where("username = ?", cfg.AdminUser).Count(&count).Error; err != nil {
		return eris.Wrap(err, "store: count admin users")
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return eris.Wrap(err, "store: hash bootstrap password")
	}

	admin := &User{
		Username:     cfg.AdminUser,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}

	if err := db.Create(admin).Error; err != nil {
		return eris.Wrap(err, "store: create bootstrap admin")
	}
	return nil
}

// EnsureBootstrapAPIKey ensures the bootstrap admin user owns an active
// API key matching APP_INTERNAL_API_KEY. If the key exists under another
// user it is moved to the admin.
func EnsureBootstrapAPIKey(db *gorm.DB, cfg *config.Config) error {
	if cfg.InternalAPIKey == "" {
		return nil
	}

	var admin User
	if err := db.Where("username = ?", cfg.AdminUser).First(&admin).Error; err != nil {
		return eris.Wrap(err, "store: load bootstrap admin")
	}

	// Use Find so "not found" doesn't log as an error inside GORM.
	var existing APIKey
	if err := db.Where("key = ?", cfg.InternalAPIKey).Limit(1).Find(&existing).Error; err == nil && existing.ID != 0 {
		if existing.UserID != admin.ID {
			existing.UserID = admin.ID
			existing.Name = "cor-dashboard"
			existing.Active = true
			return db.Save(&existing).Error
		}
		return nil
	}

	key := &APIKey{
		UserID: admin.ID,
		Name:   "cor-dashboard",
		Key:    cfg.InternalAPIKey,
		Active: true,
	}

	if err := db.Create(key).Error; err != nil {
		return eris.Wrap(err, "store: create bootstrap api key")
	}
	return nil
}
