package database

import (
	"errors"
	"fmt"
	"time"

	"cafelist/config"
	"cafelist/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store, checks the connection and
// migrates the schema.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	return openWith(dialector, cfg, log)
}

func openWith(dialector gorm.Dialector, cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// a single writer avoids "database is locked" under concurrent adds
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.MaxConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("database ready", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Cafe{}, &model.Admin{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the admin account or resets its password.
func SeedAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return errors.New("admin username and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var admin model.Admin
	err = db.Where("username = ?", username).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = model.Admin{Username: username, Password: string(hashed), Role: model.RoleAdmin}
		return db.Create(&admin).Error
	case err != nil:
		return fmt.Errorf("find admin %s: %w", username, err)
	}

	admin.Password = string(hashed)
	admin.Role = model.RoleAdmin
	return db.Save(&admin).Error
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
