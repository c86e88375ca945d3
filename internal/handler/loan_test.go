package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/service"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

func TestBorrowAndReturn_LastCopy(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	book := testutil.SeedBook(t, db, "C# Programming", 2021, 1)
	reader := testutil.SeedReader(t, db, "Ivanov")

	borrowPath := fmt.Sprintf("/readers/%d/borrow/%d", reader.ID, book.ID)
	returnPath := fmt.Sprintf("/readers/%d/return/%d", reader.ID, book.ID)

	w := doRequest(t, router, http.MethodPost, borrowPath, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("borrow: expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var borrowed LoanActionResponse
	decodeBody(t, w, &borrowed)
	if borrowed.Message != service.MessageBorrowed {
		t.Errorf("expected message %q, got %q", service.MessageBorrowed, borrowed.Message)
	}
	if borrowed.Data.Returned || borrowed.Data.ReturnDate != nil {
		t.Errorf("expected an open loan, got %+v", borrowed.Data)
	}

	var stored model.Book
	db.First(&stored, book.ID)
	if stored.Count != 0 {
		t.Fatalf("expected count 0 after borrow, got %d", stored.Count)
	}

	w = doRequest(t, router, http.MethodGet, "/books/borrowed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected borrowed list, got %d", w.Code)
	}
	var list ListBooksResponse
	decodeBody(t, w, &list)
	if len(list.Data) != 1 || list.Data[0].ID != book.ID {
		t.Errorf("expected the book in the borrowed list, got %+v", list.Data)
	}

	w = doRequest(t, router, http.MethodPost, returnPath, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("return: expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var returned LoanActionResponse
	decodeBody(t, w, &returned)
	if returned.Message != service.MessageReturned {
		t.Errorf("expected message %q, got %q", service.MessageReturned, returned.Message)
	}
	if returned.Data.ReturnDate == nil {
		t.Fatalf("expected return date to be set")
	}
	if returned.Data.ReturnDate.Before(returned.Data.BorrowedDate) {
		t.Errorf("return date %v precedes borrow date %v", returned.Data.ReturnDate, returned.Data.BorrowedDate)
	}

	db.First(&stored, book.ID)
	if stored.Count != 1 {
		t.Errorf("expected count 1 after return, got %d", stored.Count)
	}

	w = doRequest(t, router, http.MethodGet, "/books/borrowed", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected empty borrowed list after return, got %d", w.Code)
	}
}

func TestBorrow_NoCopies_Returns409(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	book := testutil.SeedBook(t, db, "Sold Out", 2000, 0)
	reader := testutil.SeedReader(t, db, "Ivanov")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/readers/%d/borrow/%d", reader.ID, book.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp validation.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != service.CodeNoCopiesAvailable {
		t.Errorf("expected code %q, got %q", service.CodeNoCopiesAvailable, resp.Code)
	}

	var loans int64
	db.Model(&model.Loan{}).Count(&loans)
	if loans != 0 {
		t.Errorf("expected no loan to be created, got %d", loans)
	}
}

func TestBorrow_UnknownReaderOrBook_Returns404(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	book := testutil.SeedBook(t, db, "Exists", 2000, 1)
	reader := testutil.SeedReader(t, db, "Exists")

	cases := []struct {
		name string
		path string
		code string
	}{
		{"unknown reader", fmt.Sprintf("/readers/%d/borrow/%d", reader.ID+100, book.ID), service.CodeReaderNotFound},
		{"unknown book", fmt.Sprintf("/readers/%d/borrow/%d", reader.ID, book.ID+100), service.CodeBookNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, tc.path, nil)
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected status 404, got %d", w.Code)
			}

			var resp validation.ErrorResponse
			decodeBody(t, w, &resp)
			if resp.Code != tc.code {
				t.Errorf("expected code %q, got %q", tc.code, resp.Code)
			}
		})
	}
}

func TestBorrow_Twice_Returns409(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	book := testutil.SeedBook(t, db, "Popular", 2000, 3)
	reader := testutil.SeedReader(t, db, "Greedy")
	path := fmt.Sprintf("/readers/%d/borrow/%d", reader.ID, book.ID)

	if w := doRequest(t, router, http.MethodPost, path, nil); w.Code != http.StatusOK {
		t.Fatalf("first borrow: expected 200, got %d", w.Code)
	}

	w := doRequest(t, router, http.MethodPost, path, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second borrow: expected 409, got %d", w.Code)
	}

	var stored model.Book
	db.First(&stored, book.ID)
	if stored.Count != 2 {
		t.Errorf("expected count 2, got %d", stored.Count)
	}
}

func TestReturn_WithoutOpenLoan_Returns404(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	book := testutil.SeedBook(t, db, "Never Borrowed", 2000, 1)
	reader := testutil.SeedReader(t, db, "Honest")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/readers/%d/return/%d", reader.ID, book.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp validation.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != service.CodeLoanNotFound {
		t.Errorf("expected code %q, got %q", service.CodeLoanNotFound, resp.Code)
	}

	var stored model.Book
	db.First(&stored, book.ID)
	if stored.Count != 1 {
		t.Errorf("expected count to stay 1, got %d", stored.Count)
	}
}

func TestBorrow_InvalidIDs_Returns400(t *testing.T) {
	router := setupLoanRouterWithService(&fakeLoanService{})

	for _, path := range []string{"/readers/x/borrow/1", "/readers/1/borrow/y", "/readers/0/return/1"} {
		w := doRequest(t, router, http.MethodPost, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestBorrow_InternalError_Returns500(t *testing.T) {
	svc := &fakeLoanService{
		BorrowFn: func(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error) {
			return nil, errors.New("forced borrow error")
		},
	}
	router := setupLoanRouterWithService(svc)

	w := doRequest(t, router, http.MethodPost, "/readers/1/borrow/2", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp validation.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Code != "BORROW_FAILED" {
		t.Errorf("expected code BORROW_FAILED, got %q", resp.Code)
	}
}

func TestBorrow_PassesPathIDs(t *testing.T) {
	var gotReader, gotBook uint
	svc := &fakeLoanService{
		BorrowFn: func(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error) {
			gotReader, gotBook = readerID, bookID
			return &service.LoanResult{
				Message: service.MessageBorrowed,
				Loan: model.Loan{
					ID:           9,
					ReaderID:     readerID,
					BookID:       bookID,
					BorrowedDate: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	router := setupLoanRouterWithService(svc)

	w := doRequest(t, router, http.MethodPost, "/readers/3/borrow/5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotReader != 3 || gotBook != 5 {
		t.Errorf("expected reader 3 and book 5, got %d and %d", gotReader, gotBook)
	}

	var resp LoanActionResponse
	decodeBody(t, w, &resp)
	if resp.Data.ID != 9 || resp.Data.Book != nil {
		t.Errorf("unexpected loan payload %+v", resp.Data)
	}
}

func TestListReaderLoans(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	reader := testutil.SeedReader(t, db, "Reader")
	book := testutil.SeedBook(t, db, "Book", 2000, 1)
	testutil.SeedLoan(t, db, reader, book, nil)

	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/readers/%d/loans", reader.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp ListLoansResponse
	decodeBody(t, w, &resp)
	if len(resp.Data) != 1 || resp.Data[0].BookID != book.ID {
		t.Errorf("expected one loan for book %d, got %+v", book.ID, resp.Data)
	}

	w = doRequest(t, router, http.MethodGet, "/readers/999/loans", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown reader, got %d", w.Code)
	}
}
