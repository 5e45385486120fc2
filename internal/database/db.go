package database

import (
	"fmt"
	"time"

	"presales-tracker/internal/config"
	"presales-tracker/internal/logger"
	"presales-tracker/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects with retries, migrates the schema and bootstraps accounts.
func Init(cfg *config.Config) error {
	var err error

	for i := 1; i <= cfg.DBConnAttempts; i++ {
		logrus.WithFields(logrus.Fields{
			"driver":  cfg.DBDriver,
			"attempt": i,
			"max":     cfg.DBConnAttempts,
		}).Info("connecting to DB")

		DB, err = Open(cfg.DBDriver, cfg.DBDSN)
		if err == nil {
			logrus.Info("connected to DB successfully")
			break
		}

		logrus.WithError(err).Warn("failed to connect to DB")
		if i < cfg.DBConnAttempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return fmt.Errorf("connect to db after %d attempts: %w", cfg.DBConnAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	if err := CreateDefaultAdmin(DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}
	if cfg.SeedDemoUsers {
		SeedDemoUsers(DB)
	}
	return nil
}

// Open returns a gorm handle for one of the supported drivers.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Gorm()})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// a single connection keeps shared-cache memory databases from locking
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates every table of the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Project{},
		&models.Proposal{},
		&models.Product{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateDefaultAdmin adds an administrator account unless one already exists.
func CreateDefaultAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := NewUser(username, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	admin.Email = "admin@example.com"
	admin.FirstName = "Admin"
	admin.LastName = "User"

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	logrus.WithField("username", username).Info("created default admin user")
	return nil
}

// SeedDemoUsers adds a presales and a viewer account for demos.
func SeedDemoUsers(db *gorm.DB) {
	type seedUser struct {
		Username string
		Password string
		Email    string
		Role     models.UserRole
	}

	users := []seedUser{
		{Username: "presales", Password: "presales123", Email: "presales@example.com", Role: models.RolePresales},
		{Username: "viewer", Password: "viewer123", Email: "viewer@example.com", Role: models.RoleViewer},
	}

	for _, u := range users {
		log := logrus.WithField("username", u.Username)

		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			log.WithError(err).Warn("failed to check seed user")
			continue
		}
		if count > 0 {
			continue
		}

		user, err := NewUser(u.Username, u.Password, u.Role)
		if err != nil {
			log.WithError(err).Warn("failed to build seed user")
			continue
		}
		user.Email = u.Email

		if err := db.Create(user).Error; err != nil {
			log.WithError(err).Warn("failed to create seed user")
			continue
		}

		log.WithField("role", u.Role).Info("created seed user")
	}
}

// NewUser returns an active, unsaved user with a bcrypt password hash.
func NewUser(username, password string, role models.UserRole) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", username, err)
	}
	return &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}, nil
}
