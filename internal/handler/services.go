package handler

import (
	"context"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/service"
)

type CatalogService interface {
	Add(ctx context.Context, book model.Book) (*model.Book, error)
	GetByID(ctx context.Context, id uint) (*model.Book, error)
	Edit(ctx context.Context, id uint, updated model.Book) error
	Delete(ctx context.Context, id uint) error
	ListBorrowed(ctx context.Context) ([]model.Book, error)
	ListAvailable(ctx context.Context) ([]model.Book, error)
	SearchByTitle(ctx context.Context, fragment string) ([]model.Book, error)
	ListPublishedBefore(ctx context.Context, year int) ([]model.Book, error)
}

type MembershipService interface {
	Add(ctx context.Context, reader model.Reader) (*model.Reader, error)
	GetByID(ctx context.Context, id uint) (*model.Reader, error)
	Edit(ctx context.Context, id uint, updated model.Reader) error
	Delete(ctx context.Context, id uint) error
}

type LoanService interface {
	Borrow(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error)
	Return(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error)
	ListByReader(ctx context.Context, readerID uint) ([]model.Loan, error)
}
