package service

import (
	"context"
	"fmt"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
)

const (
	MessageBorrowed = "book issued to reader"
	MessageReturned = "book returned to the library"
)

// LoanResult is what a successful borrow or return hands back.
type LoanResult struct {
	Message string
	Loan    model.Loan
}

// LoanService opens and closes loans. Every transition writes the loan row and
// the book count in one transaction, so the two never disagree.
type LoanService struct {
	store *repository.Store
	clock Clock
}

type LoanOption func(*LoanService)

func WithClock(c Clock) LoanOption {
	return func(s *LoanService) {
		if c != nil {
			s.clock = c
		}
	}
}

func NewLoanService(store *repository.Store, opts ...LoanOption) *LoanService {
	s := &LoanService{
		store: store,
		clock: realClock{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *LoanService) Borrow(ctx context.Context, readerID, bookID uint) (*LoanResult, error) {
	var loan model.Loan

	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		ok, err := tx.Readers.Lock(ctx, readerID, repository.LockShare)
		if err != nil {
			return fmt.Errorf("find reader %d: %w", readerID, err)
		}
		if !ok {
			return ErrReaderNotFound
		}

		book, err := tx.Books.FindByIDForUpdate(ctx, bookID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrBookNotFound
			}
			return fmt.Errorf("find book %d: %w", bookID, err)
		}
		if book.Count <= 0 {
			return ErrNoCopiesAvailable
		}

		if _, err := tx.Loans.FindOpen(ctx, readerID, bookID); err == nil {
			return ErrAlreadyBorrowed
		} else if !repository.IsNotFound(err) {
			return fmt.Errorf("find open loan: %w", err)
		}

		loan = model.Loan{
			ReaderID:     readerID,
			BookID:       bookID,
			BorrowedDate: s.clock.Now(),
		}
		if err := tx.Loans.Create(ctx, &loan); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrAlreadyBorrowed
			}
			return fmt.Errorf("create loan: %w", err)
		}

		taken, err := tx.Books.DecrementCount(ctx, bookID)
		if err != nil {
			return fmt.Errorf("decrement count for book %d: %w", bookID, err)
		}
		if !taken {
			return ErrNoCopiesAvailable
		}

		book.Count--
		loan.Book = *book
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("book borrowed",
		"reader_id", readerID,
		"book_id", bookID,
		"loan_id", loan.ID,
		"count", loan.Book.Count,
	)

	return &LoanResult{Message: MessageBorrowed, Loan: loan}, nil
}

func (s *LoanService) Return(ctx context.Context, readerID, bookID uint) (*LoanResult, error) {
	var loan *model.Loan

	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		loan, err = tx.Loans.FindOpen(ctx, readerID, bookID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrLoanNotFound
			}
			return fmt.Errorf("find open loan: %w", err)
		}

		book, err := tx.Books.FindByIDForUpdate(ctx, bookID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrBookNotFound
			}
			return fmt.Errorf("find book %d: %w", bookID, err)
		}

		returnedAt := s.clock.Now()
		if returnedAt.Before(loan.BorrowedDate) {
			returnedAt = loan.BorrowedDate
		}

		if err := tx.Loans.Close(ctx, loan.ID, returnedAt); err != nil {
			if repository.IsNotFound(err) {
				return ErrLoanNotFound
			}
			return fmt.Errorf("close loan %d: %w", loan.ID, err)
		}
		if err := tx.Books.IncrementCount(ctx, bookID); err != nil {
			return fmt.Errorf("increment count for book %d: %w", bookID, err)
		}

		book.Count++
		loan.ReturnDate = &returnedAt
		loan.Book = *book
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("book returned",
		"reader_id", readerID,
		"book_id", bookID,
		"loan_id", loan.ID,
		"count", loan.Book.Count,
	)

	return &LoanResult{Message: MessageReturned, Loan: *loan}, nil
}

func (s *LoanService) ListByReader(ctx context.Context, readerID uint) ([]model.Loan, error) {
	ok, err := s.store.Readers.Exists(ctx, readerID)
	if err != nil {
		return nil, fmt.Errorf("find reader %d: %w", readerID, err)
	}
	if !ok {
		return nil, ErrReaderNotFound
	}

	loans, err := s.store.Loans.ListByReader(ctx, readerID)
	if err != nil {
		return nil, fmt.Errorf("list loans for reader %d: %w", readerID, err)
	}
	return loans, nil
}
