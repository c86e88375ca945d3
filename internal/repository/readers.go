package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

type ReaderRepository interface {
	Create(ctx context.Context, reader *model.Reader) error
	FindByID(ctx context.Context, id uint) (*model.Reader, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Lock(ctx context.Context, id uint, strength string) (bool, error)
	Update(ctx context.Context, reader *model.Reader) error
	Delete(ctx context.Context, id uint) error
}

type GormReaderRepository struct {
	db *gorm.DB
}

func NewGormReaderRepository(db *gorm.DB) *GormReaderRepository {
	return &GormReaderRepository{db: db}
}

func (r *GormReaderRepository) Create(ctx context.Context, reader *model.Reader) error {
	return r.db.WithContext(ctx).Omit("Loans").Create(reader).Error
}

// FindByID loads the reader together with the loan history, newest first.
func (r *GormReaderRepository) FindByID(ctx context.Context, id uint) (*model.Reader, error) {
	var reader model.Reader
	if err := r.db.WithContext(ctx).
		Preload("Loans", func(db *gorm.DB) *gorm.DB {
			return db.Order("borrowed_date DESC, id DESC")
		}).
		Preload("Loans.Book").
		First(&reader, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &reader, nil
}

func (r *GormReaderRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.Reader{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {

		return false, err
	}
	return n > 0, nil
}

// Lock reports whether the reader exists and holds a row lock of the given
// strength ("UPDATE" or "SHARE") until the surrounding transaction ends.
// SQLite has no row locks; the dialect drops the clause there.
func (r *GormReaderRepository) Lock(ctx context.Context, id uint, strength string) (bool, error) {
	var reader model.Reader
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Select("id").
		First(&reader, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *GormReaderRepository) Update(ctx context.Context, reader *model.Reader) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reader{}).
		Where("id = ?", reader.ID).
		Updates(map[string]any{
			"last_name":       reader.LastName,
			"name":            reader.Name,
			"middle_name":     reader.MiddleName,
			"day_of_birthday": reader.DayOfBirthday,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReaderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Reader{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
