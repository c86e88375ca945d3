package db

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

const (
	defaultMaxAttempts     = 10
	defaultDelayBetweenTry = 2 * time.Second
)

// Open opens a gorm handle for the configured driver and pings it once.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

// ConnectWithRetry keeps calling Open until the database answers or the
// attempts run out.
func ConnectWithRetry(cfg *config.Config) (*gorm.DB, error) {
	var err error

	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		var db *gorm.DB
		db, err = Open(cfg)
		if err == nil {
			return db, nil
		}

		slog.Warn("db not ready",
			"attempt", attempt,
			"max_attempts", defaultMaxAttempts,
			"error", err,
		)
		time.Sleep(defaultDelayBetweenTry)
	}

	return nil, fmt.Errorf("could not connect to db after %d attempts: %w", defaultMaxAttempts, err)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Book{}, &model.Reader{}, &model.Loan{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func newLogger(level string) gormlogger.Interface {
	logLevel := gormlogger.Warn
	switch level {
	case "debug":
		logLevel = gormlogger.Info
	case "error":
		logLevel = gormlogger.Error
	}

	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
