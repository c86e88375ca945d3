package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
)

func titles(books []model.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestGormBookRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	book := model.Book{
		Title:           "C# Programming",
		Author:          "Troelsen",
		Article:         "CS-001",
		YearPublication: 2021,
		Count:           1,
	}
	if err := repo.Create(ctx, &book); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if book.ID == 0 {
		t.Fatalf("expected generated id")
	}

	found, err := repo.FindByID(ctx, book.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Title != book.Title || found.Count != 1 {
		t.Errorf("unexpected book: %+v", found)
	}

	if _, err := repo.FindByID(ctx, book.ID+100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	locked, err := repo.FindByIDForUpdate(ctx, book.ID)
	if err != nil {
		t.Fatalf("FindByIDForUpdate returned error: %v", err)
	}
	if locked.ID != book.ID {
		t.Errorf("expected id %d, got %d", book.ID, locked.ID)
	}
}

func TestGormBookRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	book := testutil.SeedBook(t, db, "Old Title", 1999, 3)

	book.Title = "New Title"
	book.Count = 0
	if err := repo.Update(ctx, &book); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored, _ := repo.FindByID(ctx, book.ID)
	if stored.Title != "New Title" || stored.Count != 0 {
		t.Errorf("expected updated fields, got %+v", stored)
	}

	missing := model.Book{ID: book.ID + 1, Title: "x"}
	if err := repo.Update(ctx, &missing); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on missing update, got %v", err)
	}

	if err := repo.Delete(ctx, book.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(ctx, book.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestGormBookRepository_DecrementNeverGoesNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	book := testutil.SeedBook(t, db, "Single Copy", 2000, 1)

	ok, err := repo.DecrementCount(ctx, book.ID)
	if err != nil || !ok {
		t.Fatalf("expected first decrement to succeed, ok=%v err=%v", ok, err)
	}

	ok, err = repo.DecrementCount(ctx, book.ID)
	if err != nil {
		t.Fatalf("DecrementCount returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected decrement on empty shelf to report false")
	}

	stored, _ := repo.FindByID(ctx, book.ID)
	if stored.Count != 0 {
		t.Fatalf("expected count 0, got %d", stored.Count)
	}

	if err := repo.IncrementCount(ctx, book.ID); err != nil {
		t.Fatalf("IncrementCount returned error: %v", err)
	}
	stored, _ = repo.FindByID(ctx, book.ID)
	if stored.Count != 1 {
		t.Fatalf("expected count 1, got %d", stored.Count)
	}

	if err := repo.IncrementCount(ctx, book.ID+50); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGormBookRepository_BorrowedAndAvailable(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	reader := testutil.SeedReader(t, db, "Ivanov")

	onLoan := testutil.SeedBook(t, db, "On Loan", 2001, 2)
	returned := testutil.SeedBook(t, db, "Returned", 2002, 1)
	shelf := testutil.SeedBook(t, db, "On Shelf", 2003, 4)
	testutil.SeedBook(t, db, "No Copies", 2004, 0)

	testutil.SeedLoan(t, db, reader, onLoan, nil)
	back := time.Now()
	testutil.SeedLoan(t, db, reader, returned, &back)

	borrowed, err := repo.ListBorrowed(ctx)
	if err != nil {
		t.Fatalf("ListBorrowed returned error: %v", err)
	}
	if len(borrowed) != 1 || borrowed[0].ID != onLoan.ID {
		t.Fatalf("expected only %q borrowed, got %v", onLoan.Title, titles(borrowed))
	}

	available, err := repo.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable returned error: %v", err)
	}
	if len(available) != 2 || available[0].ID != returned.ID || available[1].ID != shelf.ID {
		t.Fatalf("expected [Returned On Shelf], got %v", titles(available))
	}
}

func TestGormBookRepository_SearchByTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	testutil.SeedBook(t, db, "C# Programming", 2020, 1)
	testutil.SeedBook(t, db, "Go Programming Language", 2015, 1)
	testutil.SeedBook(t, db, "100% Pure Design", 2010, 1)
	testutil.SeedBook(t, db, "Cooking", 2011, 1)

	books, err := repo.SearchByTitle(ctx, "programming")
	if err != nil {
		t.Fatalf("SearchByTitle returned error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 matches, got %v", titles(books))
	}

	books, err = repo.SearchByTitle(ctx, "0%")
	if err != nil {
		t.Fatalf("SearchByTitle returned error: %v", err)
	}
	if len(books) != 1 || books[0].Title != "100% Pure Design" {
		t.Fatalf("expected literal %% match only, got %v", titles(books))
	}

	books, err = repo.SearchByTitle(ctx, "_")
	if err != nil {
		t.Fatalf("SearchByTitle returned error: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("expected underscore to be matched literally, got %v", titles(books))
	}
}

func TestGormBookRepository_ListPublishedBefore(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	testutil.SeedBook(t, db, "Newer", 2010, 1)
	testutil.SeedBook(t, db, "Boundary", 2000, 1)
	testutil.SeedBook(t, db, "Older", 1990, 1)

	books, err := repo.ListPublishedBefore(ctx, 2000)
	if err != nil {
		t.Fatalf("ListPublishedBefore returned error: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Older" {
		t.Fatalf("expected only Older, got %v", titles(books))
	}
}
