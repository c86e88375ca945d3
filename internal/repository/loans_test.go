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

func TestGormLoanRepository_OpenAndClose(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()

	reader := testutil.SeedReader(t, db, "Petrov")
	book := testutil.SeedBook(t, db, "Dune", 1965, 2)

	loan := model.Loan{ReaderID: reader.ID, BookID: book.ID, BorrowedDate: time.Now()}
	if err := repo.Create(ctx, &loan); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	open, err := repo.FindOpen(ctx, reader.ID, book.ID)
	if err != nil {
		t.Fatalf("FindOpen returned error: %v", err)
	}
	if open.ID != loan.ID {
		t.Fatalf("expected loan %d, got %d", loan.ID, open.ID)
	}

	n, err := repo.CountOpenByBook(ctx, book.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 open loan for book, got %d (err=%v)", n, err)
	}
	n, err = repo.CountOpenByReader(ctx, reader.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 open loan for reader, got %d (err=%v)", n, err)
	}

	if err := repo.Close(ctx, loan.ID, time.Now()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := repo.Close(ctx, loan.ID, time.Now()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected closing twice to fail with ErrRecordNotFound, got %v", err)
	}
	if _, err := repo.FindOpen(ctx, reader.ID, book.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected no open loan after close, got %v", err)
	}
}

func TestGormLoanRepository_OneOpenLoanPerPair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()

	reader := testutil.SeedReader(t, db, "Sidorov")
	book := testutil.SeedBook(t, db, "Solaris", 1961, 3)

	first := model.Loan{ReaderID: reader.ID, BookID: book.ID, BorrowedDate: time.Now()}
	if err := repo.Create(ctx, &first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	second := model.Loan{ReaderID: reader.ID, BookID: book.ID, BorrowedDate: time.Now()}
	err := repo.Create(ctx, &second)
	if !IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error for second open loan, got %v", err)
	}

	if err := repo.Close(ctx, first.ID, time.Now()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	again := model.Loan{ReaderID: reader.ID, BookID: book.ID, BorrowedDate: time.Now()}
	if err := repo.Create(ctx, &again); err != nil {
		t.Fatalf("expected borrowing again after return to succeed, got %v", err)
	}

	loans, err := repo.ListByReader(ctx, reader.ID)
	if err != nil {
		t.Fatalf("ListByReader returned error: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans in history, got %d", len(loans))
	}
	if loans[0].Book.Title != "Solaris" {
		t.Errorf("expected preloaded book, got %+v", loans[0].Book)
	}
}

func TestGormLoanRepository_DeleteClosed(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()

	reader := testutil.SeedReader(t, db, "Smirnov")
	book := testutil.SeedBook(t, db, "Roadside Picnic", 1972, 2)
	other := testutil.SeedBook(t, db, "Hard to Be a God", 1964, 2)

	back := time.Now()
	testutil.SeedLoan(t, db, reader, book, &back)
	testutil.SeedLoan(t, db, reader, other, nil)

	if err := repo.DeleteClosedByBook(ctx, book.ID); err != nil {
		t.Fatalf("DeleteClosedByBook returned error: %v", err)
	}
	if err := repo.DeleteClosedByReader(ctx, reader.ID); err != nil {
		t.Fatalf("DeleteClosedByReader returned error: %v", err)
	}

	loans, err := repo.ListByReader(ctx, reader.ID)
	if err != nil {
		t.Fatalf("ListByReader returned error: %v", err)
	}
	if len(loans) != 1 || !loans[0].IsOpen() {
		t.Fatalf("expected only the open loan to remain, got %+v", loans)
	}
}
