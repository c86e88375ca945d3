package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Row lock strengths for clause.Locking.
const (
	LockUpdate = "UPDATE"
	LockShare  = "SHARE"
)

// Store groups the repositories that share one gorm handle, so a service can
// run several of them inside a single transaction.
type Store struct {
	db      *gorm.DB
	Books   BookRepository
	Readers ReaderRepository
	Loans   LoanRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Books:   NewGormBookRepository(db),
		Readers: NewGormReaderRepository(db),
		Loans:   NewGormLoanRepository(db),
	}
}

// WithTx runs fn in a transaction. fn returning nil commits, anything else
// rolls back and is returned unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports a unique index violation, translated by gorm or
// still wrapped in the postgres driver error.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
