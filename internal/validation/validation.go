package validation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidBody      = "INVALID_REQUEST_BODY"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// BindAndValidateJSON binds the body into dst and writes a 400 response on
// failure. It returns false when the handler should stop.
func BindAndValidateJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.AbortWithStatusJSON(http.StatusBadRequest, formatValidationErrors(verrs))
			return false
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Code:    CodeInvalidBody,
			Message: "invalid request body",
			Errors: []FieldError{
				{
					Field:   "",
					Rule:    "syntax",
					Message: err.Error(),
				},
			},
		})
		return false
	}

	return true
}

func formatValidationErrors(verrs validator.ValidationErrors) ErrorResponse {
	fields := make([]FieldError, 0, len(verrs))

	for _, fe := range verrs {
		jsonField := toJSONFieldName(fe.Field())
		fields = append(fields, FieldError{
			Field:   jsonField,
			Rule:    fe.Tag(),
			Message: buildMessage(jsonField, fe),
		})
	}

	return ErrorResponse{
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Errors:  fields,
	}
}

// toJSONFieldName turns a Go field name such as YearPublication into
// year_publication.
func toJSONFieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(field[i-1] >= 'A' && field[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func buildMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	}

	return field + " is invalid (" + fe.Tag() + ")"
}
