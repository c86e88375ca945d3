package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type BookHandler struct {
	svc CatalogService
}

func NewBookHandler(svc CatalogService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.POST("", h.CreateBook)
		books.GET("", h.GetBookByQuery)
		books.GET("/borrowed", h.ListBorrowedBooks)
		books.GET("/available", h.ListAvailableBooks)
		books.GET("/search", h.SearchBooks)
		books.GET("/published-before", h.ListBooksPublishedBefore)
		books.GET("/:id", h.GetBookByID)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Add a book to the catalog. Count is the number of copies on the shelf.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest          true  "Book to create"
// @Success      201      {object}  BookResponse
// @Header       201      {string}  Location  "URL of the created book"
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	created, err := h.svc.Add(c.Request.Context(), model.Book{
		Title:           req.Title,
		Author:          req.Author,
		Article:         req.Article,
		YearPublication: req.YearPublication,
		Count:           req.Count,
	})
	if err != nil {
		writeServiceError(c, err, "BOOK_CREATE_FAILED", "failed to create book")
		return
	}

	c.Header("Location", locationFor(c, created.ID))
	c.JSON(http.StatusCreated, toBookResponse(*created))
}

// GetBookByQuery godoc
// @Summary      Get a book by ID (query form)
// @Description  Same as GET /books/{id} with the id passed as a query parameter
// @Tags         books
// @Produce      json
// @Param        id   query     int  true  "Book ID"
// @Success      200  {object}  BookResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [get]
func (h *BookHandler) GetBookByQuery(c *gin.Context) {
	id, ok := parseID(c.Query("id"))
	if !ok {
		writeError(c, http.StatusBadRequest,
			"INVALID_BOOK_ID",
			"id query parameter must be a positive integer",
		)
		return
	}

	h.writeBook(c, id)
}

// GetBookByID godoc
// @Summary      Get a book by ID
// @Description  Get a single book by its ID
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  BookResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "INVALID_BOOK_ID", "invalid book id")
	if !ok {
		return
	}

	h.writeBook(c, id)
}

func (h *BookHandler) writeBook(c *gin.Context, id uint) {
	book, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "BOOK_FETCH_FAILED", "failed to fetch book")
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Replace every field of a book. The id in the body must match the path.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Book ID"
// @Param        payload  body      UpdateBookRequest   true  "New book state"
// @Success      204      {string}  string  "No content"
// @Failure      400      {object}  validation.ErrorResponse   "Invalid ID or payload"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "INVALID_BOOK_ID", "invalid book id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	err := h.svc.Edit(c.Request.Context(), id, model.Book{
		ID:              req.ID,
		Title:           req.Title,
		Author:          req.Author,
		Article:         req.Article,
		YearPublication: req.YearPublication,
		Count:           req.Count,
	})
	if err != nil {
		writeServiceError(c, err, "BOOK_UPDATE_FAILED", "failed to update book")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Delete a book and its returned-loan history. Fails while a copy is on loan.
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      204  {string}  string  "No content"
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      409  {object}  validation.ErrorResponse   "Book has open loans"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "INVALID_BOOK_ID", "invalid book id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "BOOK_DELETE_FAILED", "failed to delete book")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListBorrowedBooks godoc
// @Summary      List borrowed books
// @Description  Books with at least one copy currently on loan
// @Tags         books
// @Produce      json
// @Success      200  {object}  ListBooksResponse
// @Failure      404  {object}  validation.ErrorResponse   "No borrowed books"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/borrowed [get]
func (h *BookHandler) ListBorrowedBooks(c *gin.Context) {
	books, err := h.svc.ListBorrowed(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "BOOK_LIST_FAILED", "failed to fetch books")
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}

// ListAvailableBooks godoc
// @Summary      List available books
// @Description  Books with copies on the shelf and no copy currently on loan
// @Tags         books
// @Produce      json
// @Success      200  {object}  ListBooksResponse
// @Failure      404  {object}  validation.ErrorResponse   "No available books"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/available [get]
func (h *BookHandler) ListAvailableBooks(c *gin.Context) {
	books, err := h.svc.ListAvailable(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "BOOK_LIST_FAILED", "failed to fetch books")
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}

// SearchBooks godoc
// @Summary      Search books by title
// @Description  Case-insensitive substring match on the title
// @Tags         books
// @Produce      json
// @Param        title  query     string  true  "Title fragment"
// @Success      200    {object}  ListBooksResponse
// @Failure      400    {object}  validation.ErrorResponse   "Empty title"
// @Failure      404    {object}  validation.ErrorResponse   "No books found"
// @Failure      500    {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	books, err := h.svc.SearchByTitle(c.Request.Context(), c.Query("title"))
	if err != nil {
		writeServiceError(c, err, "BOOK_SEARCH_FAILED", "failed to search books")
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}

// ListBooksPublishedBefore godoc
// @Summary      List books published before a year
// @Description  Books whose year of publication is strictly less than the given year
// @Tags         books
// @Produce      json
// @Param        year  query     int  true  "Exclusive upper bound"  minimum(1)
// @Success      200   {object}  ListBooksResponse
// @Failure      400   {object}  validation.ErrorResponse   "Invalid year"
// @Failure      404   {object}  validation.ErrorResponse   "No books found"
// @Failure      500   {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/published-before [get]
func (h *BookHandler) ListBooksPublishedBefore(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if err != nil {
		writeError(c, http.StatusBadRequest,
			"INVALID_YEAR",
			"year must be an integer",
		)
		return
	}

	books, err := h.svc.ListPublishedBefore(c.Request.Context(), year)
	if err != nil {
		writeServiceError(c, err, "BOOK_LIST_FAILED", "failed to fetch books")
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}
