package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	FindOpen(ctx context.Context, readerID, bookID uint) (*model.Loan, error)
	Close(ctx context.Context, loanID uint, at time.Time) error
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
	CountOpenByReader(ctx context.Context, readerID uint) (int64, error)
	DeleteClosedByBook(ctx context.Context, bookID uint) error
	DeleteClosedByReader(ctx context.Context, readerID uint) error
	ListByReader(ctx context.Context, readerID uint) ([]model.Loan, error)
}

type GormLoanRepository struct {
	db *gorm.DB
}

func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

func (r *GormLoanRepository) Create(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Omit("Book").Create(loan).Error
}

func (r *GormLoanRepository) FindOpen(ctx context.Context, readerID, bookID uint) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).
		Where("reader_id = ? AND book_id = ? AND return_date IS NULL", readerID, bookID).
		First(&loan).Error; err != nil {

		return nil, err
	}
	return &loan, nil
}

// Close sets the return date on a loan that is still open. A loan closed in
// the meantime yields gorm.ErrRecordNotFound.
func (r *GormLoanRepository) Close(ctx context.Context, loanID uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Loan{}).
		Where("id = ? AND return_date IS NULL", loanID).
		Update("return_date", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormLoanRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Loan{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&n).Error
	return n, err
}

func (r *GormLoanRepository) CountOpenByReader(ctx context.Context, readerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Loan{}).
		Where("reader_id = ? AND return_date IS NULL", readerID).
		Count(&n).Error
	return n, err
}

func (r *GormLoanRepository) DeleteClosedByBook(ctx context.Context, bookID uint) error {
	return r.db.WithContext(ctx).
		Where("book_id = ? AND return_date IS NOT NULL", bookID).
		Delete(&model.Loan{}).Error
}

func (r *GormLoanRepository) DeleteClosedByReader(ctx context.Context, readerID uint) error {
	return r.db.WithContext(ctx).
		Where("reader_id = ? AND return_date IS NOT NULL", readerID).
		Delete(&model.Loan{}).Error
}

func (r *GormLoanRepository) ListByReader(ctx context.Context, readerID uint) ([]model.Loan, error) {
	var loans []model.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("reader_id = ?", readerID).
		Order("borrowed_date DESC, id DESC").
		Find(&loans).Error; err != nil {

		return nil, err
	}
	return loans, nil
}
