package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/service"
)

func setupTestRouter(db *gorm.DB, opts ...service.MembershipOption) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := repository.NewStore(db)
	NewBookHandler(service.NewCatalogService(store)).RegisterRoutes(r.Group(""))
	NewReaderHandler(service.NewMembershipService(store, opts...)).RegisterRoutes(r.Group(""))
	NewLoanHandler(service.NewLoanService(store)).RegisterRoutes(r.Group(""))

	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to unmarshal response: %v, body=%s", err, w.Body.String())
	}
}

type fakeCatalogService struct {
	AddFn                 func(ctx context.Context, book model.Book) (*model.Book, error)
	GetByIDFn             func(ctx context.Context, id uint) (*model.Book, error)
	EditFn                func(ctx context.Context, id uint, updated model.Book) error
	DeleteFn              func(ctx context.Context, id uint) error
	ListBorrowedFn        func(ctx context.Context) ([]model.Book, error)
	ListAvailableFn       func(ctx context.Context) ([]model.Book, error)
	SearchByTitleFn       func(ctx context.Context, fragment string) ([]model.Book, error)
	ListPublishedBeforeFn func(ctx context.Context, year int) ([]model.Book, error)
}

func (f *fakeCatalogService) Add(ctx context.Context, book model.Book) (*model.Book, error) {
	if f.AddFn != nil {
		return f.AddFn(ctx, book)
	}
	book.ID = 1
	return &book, nil
}

func (f *fakeCatalogService) GetByID(ctx context.Context, id uint) (*model.Book, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, service.ErrBookNotFound
}

func (f *fakeCatalogService) Edit(ctx context.Context, id uint, updated model.Book) error {
	if f.EditFn != nil {
		return f.EditFn(ctx, id, updated)
	}
	return nil
}

func (f *fakeCatalogService) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeCatalogService) ListBorrowed(ctx context.Context) ([]model.Book, error) {
	if f.ListBorrowedFn != nil {
		return f.ListBorrowedFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalogService) ListAvailable(ctx context.Context) ([]model.Book, error) {
	if f.ListAvailableFn != nil {
		return f.ListAvailableFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalogService) SearchByTitle(ctx context.Context, fragment string) ([]model.Book, error) {
	if f.SearchByTitleFn != nil {
		return f.SearchByTitleFn(ctx, fragment)
	}
	return nil, nil
}

func (f *fakeCatalogService) ListPublishedBefore(ctx context.Context, year int) ([]model.Book, error) {
	if f.ListPublishedBeforeFn != nil {
		return f.ListPublishedBeforeFn(ctx, year)
	}
	return nil, nil
}

type fakeMembershipService struct {
	AddFn     func(ctx context.Context, reader model.Reader) (*model.Reader, error)
	GetByIDFn func(ctx context.Context, id uint) (*model.Reader, error)
	EditFn    func(ctx context.Context, id uint, updated model.Reader) error
	DeleteFn  func(ctx context.Context, id uint) error
}

func (f *fakeMembershipService) Add(ctx context.Context, reader model.Reader) (*model.Reader, error) {
	if f.AddFn != nil {
		return f.AddFn(ctx, reader)
	}
	reader.ID = 1
	return &reader, nil
}

func (f *fakeMembershipService) GetByID(ctx context.Context, id uint) (*model.Reader, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, service.ErrReaderNotFound
}

func (f *fakeMembershipService) Edit(ctx context.Context, id uint, updated model.Reader) error {
	if f.EditFn != nil {
		return f.EditFn(ctx, id, updated)
	}
	return nil
}

func (f *fakeMembershipService) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

type fakeLoanService struct {
	BorrowFn       func(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error)
	ReturnFn       func(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error)
	ListByReaderFn func(ctx context.Context, readerID uint) ([]model.Loan, error)
}

func (f *fakeLoanService) Borrow(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error) {
	if f.BorrowFn != nil {
		return f.BorrowFn(ctx, readerID, bookID)
	}
	return nil, service.ErrNoCopiesAvailable
}

func (f *fakeLoanService) Return(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error) {
	if f.ReturnFn != nil {
		return f.ReturnFn(ctx, readerID, bookID)
	}
	return nil, service.ErrLoanNotFound
}

func (f *fakeLoanService) ListByReader(ctx context.Context, readerID uint) ([]model.Loan, error) {
	if f.ListByReaderFn != nil {
		return f.ListByReaderFn(ctx, readerID)
	}
	return nil, nil
}

func setupBookRouterWithService(svc CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewBookHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

func setupReaderRouterWithService(svc MembershipService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewReaderHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

func setupLoanRouterWithService(svc LoanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewLoanHandler(svc).RegisterRoutes(r.Group(""))
	return r
}
