package db

import (
	"strings"
	"time"

	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConnectDb opens postgres for regular DSNs and sqlite for "file:" or
// "sqlite:" URLs (local runs and tests).
func ConnectDb(url string, log *utils.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
	}

	isSQLite := strings.HasPrefix(url, "file:") || strings.HasPrefix(url, "sqlite:")

	var dialector gorm.Dialector
	if isSQLite {
		dialector = sqlite.Open(strings.TrimPrefix(url, "sqlite:"))
	} else {
		dialector = postgres.New(postgres.Config{
			DSN:                  url,
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}

	log.Info("✅ Database connection successfully")

	log.Info("📦 Setting database connection pool...")
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if isSQLite {
		// one connection: sqlite serialises writers and an in-memory
		// database lives only as long as its connection
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// newGormLogger routes gorm's SQL errors through w. Lookups that find no
// row are normal control flow here and stay silent.
func newGormLogger(w gormLogger.Writer) gormLogger.Interface {
	return gormLogger.New(w, gormLogger.Config{
		LogLevel:                  gormLogger.Error,
		IgnoreRecordNotFoundError: true,
	})
}

func Migrate(db *gorm.DB, trigger bool, log *utils.Logger) error {
	if !trigger {
		log.Info("📦 Auto migration disabled")
		return nil
	}

	log.Info("📦 Migrating database...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Errorf("✖ Failed to migrate database: %v", err)
		return err
	}

	log.Info("✅ Database migrated")
	return nil
}

func Close(db *gorm.DB, log *utils.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Errorf("Failed to get database handle: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Errorf("Failed to close database: %v", err)
		return
	}
	log.Info("Database connection closed")
}
