package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
)

// CatalogService manages books and answers availability questions.
type CatalogService struct {
	store *repository.Store
}

func NewCatalogService(store *repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Add(ctx context.Context, book model.Book) (*model.Book, error) {
	if err := validateBook(book, false); err != nil {
		return nil, err
	}

	book.ID = 0
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.Article = strings.TrimSpace(book.Article)

	if err := s.store.Books.Create(ctx, &book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	logging.FromContext(ctx).Info("book added", "book_id", book.ID, "count", book.Count)
	return &book, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.store.Books.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return book, nil
}

// Edit replaces the mutable fields of book id with those of updated.
func (s *CatalogService) Edit(ctx context.Context, id uint, updated model.Book) error {
	if id != updated.ID {
		return ErrIDMismatch
	}
	if err := validateBook(updated, true); err != nil {
		return err
	}

	updated.Title = strings.TrimSpace(updated.Title)
	updated.Author = strings.TrimSpace(updated.Author)
	updated.Article = strings.TrimSpace(updated.Article)

	if err := s.store.Books.Update(ctx, &updated); err != nil {
		if repository.IsNotFound(err) {
			return ErrBookNotFound
		}
		return fmt.Errorf("update book %d: %w", id, err)
	}
	return nil
}

// Delete removes a book and its returned-loan history. Books that are still
// out with a reader cannot be deleted.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Books.FindByIDForUpdate(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrBookNotFound
			}
			return fmt.Errorf("find book %d: %w", id, err)
		}

		open, err := tx.Loans.CountOpenByBook(ctx, id)
		if err != nil {
			return fmt.Errorf("count open loans for book %d: %w", id, err)
		}
		if open > 0 {
			return conflictError(CodeBookHasOpenLoans, "book has copies on loan")
		}

		if err := tx.Loans.DeleteClosedByBook(ctx, id); err != nil {
			return fmt.Errorf("delete loan history for book %d: %w", id, err)
		}
		if err := tx.Books.Delete(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrBookNotFound
			}
			return fmt.Errorf("delete book %d: %w", id, err)
		}
		return nil
	})
}

func (s *CatalogService) ListBorrowed(ctx context.Context) ([]model.Book, error) {
	books, err := s.store.Books.ListBorrowed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list borrowed books: %w", err)
	}
	if len(books) == 0 {
		return nil, notFoundError(CodeNoBorrowedBooks, "no borrowed books found")
	}
	return books, nil
}

// ListAvailable returns books with copies on the shelf and no open loan.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]model.Book, error) {
	books, err := s.store.Books.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	if len(books) == 0 {
		return nil, notFoundError(CodeNoAvailableBooks, "no available books found")
	}
	return books, nil
}

func (s *CatalogService) SearchByTitle(ctx context.Context, fragment string) ([]model.Book, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, validationError(CodeInvalidTitle, "title must not be empty")
	}

	books, err := s.store.Books.SearchByTitle(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if len(books) == 0 {
		return nil, notFoundError(CodeNoBooksFound, "no books found")
	}
	return books, nil
}

func (s *CatalogService) ListPublishedBefore(ctx context.Context, year int) ([]model.Book, error) {
	if year <= 0 {
		return nil, validationError(CodeInvalidYear, "year must be a positive number")
	}

	books, err := s.store.Books.ListPublishedBefore(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list books published before %d: %w", year, err)
	}
	if len(books) == 0 {
		return nil, notFoundError(CodeNoBooksFound, "no books found")
	}
	return books, nil
}

// validateBook checks the fields shared by add and edit. Edits may set the
// count to zero; new books need at least one copy.
func validateBook(b model.Book, allowZeroCount bool) error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return validationError(CodeInvalidBook, "title is required")
	case strings.TrimSpace(b.Author) == "":
		return validationError(CodeInvalidBook, "author is required")
	case strings.TrimSpace(b.Article) == "":
		return validationError(CodeInvalidBook, "article is required")
	case b.YearPublication <= 0:
		return validationError(CodeInvalidBook, "year_publication must be positive")
	case b.Count < 0, b.Count == 0 && !allowZeroCount:
		return validationError(CodeInvalidBook, "count must be positive")
	}
	return nil
}
