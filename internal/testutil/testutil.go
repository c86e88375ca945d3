package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

// NewTestDB returns a migrated in-memory sqlite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=1"

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

// NewUnmigratedDB returns an empty database so that every query fails.
func NewUnmigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func SeedBook(t *testing.T, database *gorm.DB, title string, year, count int) model.Book {
	t.Helper()

	book := model.Book{
		Title:           title,
		Author:          "Author of " + title,
		Article:         "ART-" + uuid.NewString()[:8],
		YearPublication: year,
		Count:           count,
	}

	if err := database.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	return book
}

func SeedReader(t *testing.T, database *gorm.DB, lastName string) model.Reader {
	t.Helper()

	reader := model.Reader{
		LastName:      lastName,
		Name:          "Ivan",
		MiddleName:    "Petrovich",
		DayOfBirthday: time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC),
	}

	if err := database.Create(&reader).Error; err != nil {
		t.Fatalf("failed to seed reader %q: %v", lastName, err)
	}

	return reader
}

// SeedLoan inserts a loan row directly, bypassing the count bookkeeping.
func SeedLoan(t *testing.T, database *gorm.DB, reader model.Reader, book model.Book, returned *time.Time) model.Loan {
	t.Helper()

	loan := model.Loan{
		ReaderID:     reader.ID,
		BookID:       book.ID,
		BorrowedDate: time.Now().Add(-time.Hour),
		ReturnDate:   returned,
	}

	if err := database.Omit("Book").Create(&loan).Error; err != nil {
		t.Fatalf("failed to seed loan: %v", err)
	}

	return loan
}
