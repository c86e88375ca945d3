package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

type ReaderHandler struct {
	svc MembershipService
}

func NewReaderHandler(svc MembershipService) *ReaderHandler {
	return &ReaderHandler{svc: svc}
}

func (h *ReaderHandler) RegisterRoutes(r *gin.RouterGroup) {
	readers := r.Group("/readers")
	{
		readers.POST("", h.CreateReader)
		readers.GET("/:id", h.GetReaderByID)
		readers.PUT("/:id", h.UpdateReader)
		readers.DELETE("/:id", h.DeleteReader)
	}
}

// CreateReader godoc
// @Summary      Register a reader
// @Description  Create a reader with full name and date of birth
// @Tags         readers
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateReaderRequest        true  "Reader to create"
// @Success      201      {object}  ReaderResponse
// @Header       201      {string}  Location  "URL of the created reader"
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers [post]
func (h *ReaderHandler) CreateReader(c *gin.Context) {
	var req CreateReaderRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	created, err := h.svc.Add(c.Request.Context(), model.Reader{
		LastName:      req.LastName,
		Name:          req.Name,
		MiddleName:    req.MiddleName,
		DayOfBirthday: req.DayOfBirthday.Time,
	})
	if err != nil {
		writeServiceError(c, err, "READER_CREATE_FAILED", "failed to create reader")
		return
	}

	c.Header("Location", locationFor(c, created.ID))
	c.JSON(http.StatusCreated, ReaderResponse{Data: toReader(*created)})
}

// GetReaderByID godoc
// @Summary      Get a reader by ID
// @Description  Get a reader together with their loan history
// @Tags         readers
// @Produce      json
// @Param        id   path      int  true  "Reader ID"
// @Success      200  {object}  ReaderResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Reader not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers/{id} [get]
func (h *ReaderHandler) GetReaderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "INVALID_READER_ID", "invalid reader id")
	if !ok {
		return
	}

	reader, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "READER_FETCH_FAILED", "failed to fetch reader")
		return
	}

	c.JSON(http.StatusOK, ReaderResponse{Data: toReader(*reader)})
}

// UpdateReader godoc
// @Summary      Update a reader
// @Description  Replace the reader's name and date of birth. The id in the body must match the path.
// @Tags         readers
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Reader ID"
// @Param        payload  body      UpdateReaderRequest  true  "New reader state"
// @Success      204      {string}  string  "No content"
// @Failure      400      {object}  validation.ErrorResponse   "Invalid ID or payload"
// @Failure      404      {object}  validation.ErrorResponse   "Reader not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers/{id} [put]
func (h *ReaderHandler) UpdateReader(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "INVALID_READER_ID", "invalid reader id")
	if !ok {
		return
	}

	var req UpdateReaderRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	err := h.svc.Edit(c.Request.Context(), id, model.Reader{
		ID:            req.ID,
		LastName:      req.LastName,
		Name:          req.Name,
		MiddleName:    req.MiddleName,
		DayOfBirthday: req.DayOfBirthday.Time,
	})
	if err != nil {
		writeServiceError(c, err, "READER_UPDATE_FAILED", "failed to update reader")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteReader godoc
// @Summary      Delete a reader
// @Description  Delete a reader and their returned-loan history. Fails while they hold a book.
// @Tags         readers
// @Produce      json
// @Param        id   path      int  true  "Reader ID"
// @Success      204  {string}  string  "No content"
// @Failure      400  {object}  validation.ErrorResponse   "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse   "Reader not found"
// @Failure      409  {object}  validation.ErrorResponse   "Reader has open loans"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /readers/{id} [delete]
func (h *ReaderHandler) DeleteReader(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "INVALID_READER_ID", "invalid reader id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "READER_DELETE_FAILED", "failed to delete reader")
		return
	}

	c.Status(http.StatusNoContent)
}
