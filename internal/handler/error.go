package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/logging"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/service"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeServiceError maps a service.Error to its HTTP status. Anything else is
// logged and reported as 500 with the given code and message.
func writeServiceError(c *gin.Context, err error, code, message string) {
	var se *service.Error
	if errors.As(err, &se) {
		writeError(c, statusForKind(se.Kind), se.Code, se.Message)
		return
	}

	logging.FromContext(c.Request.Context()).Error(message, "code", code, "error", err)
	writeError(c, http.StatusInternalServerError, code, message)
}

func statusForKind(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
