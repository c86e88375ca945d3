package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/service"
)

type LoanHandler struct {
	svc LoanService
}

func NewLoanHandler(svc LoanService) *LoanHandler {
	return &LoanHandler{svc: svc}
}

func (h *LoanHandler) RegisterRoutes(r *gin.RouterGroup) {
	readers := r.Group("/readers")
	{
		readers.POST("/:id/borrow/:bookId", h.BorrowBook)
		readers.POST("/:id/return/:bookId", h.ReturnBook)
		readers.GET("/:id/loans", h.ListReaderLoans)
	}
}

// BorrowBook godoc
// @Summary      Issue a book to a reader
// @Description  Open a loan and take one copy off the shelf
// @Tags         loans
// @Produce      json
// @Param        id      path      int  true  "Reader ID"
// @Param        bookId  path      int  true  "Book ID"
// @Success      200     {object}  LoanActionResponse
// @Failure      400     {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse   "Reader or book not found"
// @Failure      409     {object}  validation.ErrorResponse   "No copies available or already borrowed"
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers/{id}/borrow/{bookId} [post]
func (h *LoanHandler) BorrowBook(c *gin.Context) {
	h.transition(c, h.svc.Borrow, "BORROW_FAILED", "failed to borrow book")
}

// ReturnBook godoc
// @Summary      Return a book
// @Description  Close the reader's open loan for the book and put the copy back on the shelf
// @Tags         loans
// @Produce      json
// @Param        id      path      int  true  "Reader ID"
// @Param        bookId  path      int  true  "Book ID"
// @Success      200     {object}  LoanActionResponse
// @Failure      400     {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse   "No open loan or book not found"
// @Failure      500     {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers/{id}/return/{bookId} [post]
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	h.transition(c, h.svc.Return, "RETURN_FAILED", "failed to return book")
}

func (h *LoanHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, readerID, bookID uint) (*service.LoanResult, error),
	code, message string,
) {
	readerID, ok := parseIDParam(c, "id", "INVALID_READER_ID", "invalid reader id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId", "INVALID_BOOK_ID", "invalid book id")
	if !ok {
		return
	}

	res, err := fn(c.Request.Context(), readerID, bookID)
	if err != nil {
		writeServiceError(c, err, code, message)
		return
	}

	c.JSON(http.StatusOK, LoanActionResponse{
		Message: res.Message,
		Data:    toLoan(res.Loan),
	})
}

// ListReaderLoans godoc
// @Summary      List a reader's loans
// @Description  Open and returned loans of a reader, newest first
// @Tags         loans
// @Produce      json
// @Param        id   path      int  true  "Reader ID"
// @Success      200  {object}  ListLoansResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Reader not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers/{id}/loans [get]
func (h *LoanHandler) ListReaderLoans(c *gin.Context) {
	readerID, ok := parseIDParam(c, "id", "INVALID_READER_ID", "invalid reader id")
	if !ok {
		return
	}

	loans, err := h.svc.ListByReader(c.Request.Context(), readerID)
	if err != nil {
		writeServiceError(c, err, "LOAN_LIST_FAILED", "failed to fetch loans")
		return
	}

	data := make([]Loan, 0, len(loans))
	for _, l := range loans {
		data = append(data, toLoan(l))
	}

	c.JSON(http.StatusOK, ListLoansResponse{Data: data})
}
