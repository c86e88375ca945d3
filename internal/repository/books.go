package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
)

const openLoanForBook = "EXISTS (SELECT 1 FROM loans WHERE loans.book_id = books.id AND loans.return_date IS NULL)"

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uint) error
	DecrementCount(ctx context.Context, id uint) (bool, error)
	IncrementCount(ctx context.Context, id uint) error
	ListBorrowed(ctx context.Context) ([]model.Book, error)
	ListAvailable(ctx context.Context) ([]model.Book, error)
	SearchByTitle(ctx context.Context, fragment string) ([]model.Book, error)
	ListPublishedBefore(ctx context.Context, year int) ([]model.Book, error)
}

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// SQLite has no row locks; the dialect drops the clause there.
func (r *GormBookRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: LockUpdate}).
		First(&book, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &book, nil
}

func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) error {
	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"title":            book.Title,
			"author":           book.Author,
			"article":          book.Article,
			"year_publication": book.YearPublication,
			"count":            book.Count,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Book{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementCount takes one copy off the shelf. It reports false when no copy
// was left, so the count can never drop below zero.
func (r *GormBookRepository) DecrementCount(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ? AND count > 0", id).
		UpdateColumn("count", gorm.Expr("count - ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormBookRepository) IncrementCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id).
		UpdateColumn("count", gorm.Expr("count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBookRepository) ListBorrowed(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where(openLoanForBook).
		Order("id ASC").
		Find(&books).Error; err != nil {

		return nil, err
	}
	return books, nil
}

func (r *GormBookRepository) ListAvailable(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("count > ?", 0).
		Where("NOT " + openLoanForBook).
		Order("id ASC").
		Find(&books).Error; err != nil {

		return nil, err
	}
	return books, nil
}

func (r *GormBookRepository) SearchByTitle(ctx context.Context, fragment string) ([]model.Book, error) {
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"

	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern).
		Order("id ASC").
		Find(&books).Error; err != nil {

		return nil, err
	}
	return books, nil
}

func (r *GormBookRepository) ListPublishedBefore(ctx context.Context, year int) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("year_publication < ?", year).
		Order("year_publication ASC, id ASC").
		Find(&books).Error; err != nil {

		return nil, err
	}
	return books, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
