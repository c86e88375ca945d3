package db

import (
	"path/filepath"
	"testing"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "library.db"),
		LogLevel:   "error",
	}

	database, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := Migrate(database); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	for _, table := range []any{&model.Book{}, &model.Reader{}, &model.Loan{}} {
		if !database.Migrator().HasTable(table) {
			t.Errorf("expected table for %T to exist", table)
		}
	}

	if !database.Migrator().HasIndex(&model.Loan{}, "idx_loans_open_pair") {
		t.Errorf("expected open loan pair index to exist")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(&config.Config{DBDriver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
