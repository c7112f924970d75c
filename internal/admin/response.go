package admin

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/gin-gonic/gin"
)

// Error codes of the response envelope.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeValidation     = "VALIDATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeConflict       = "CONFLICT"
	codeUnauthorized   = "UNAUTHORIZED"
	codeForbidden      = "FORBIDDEN"
	codeInternal       = "INTERNAL_ERROR"
)

func success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func failField(c *gin.Context, statusCode int, code, message, field string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"field":   field,
		},
	})
}

// handleError maps service errors onto the envelope. Unexpected errors are
// attached to the context for the request logger and hidden from the caller.
func handleError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		failField(c, http.StatusBadRequest, codeValidation, validationErr.Error(), validationErr.Field)
	case errors.Is(err, models.ErrConflict):
		fail(c, http.StatusConflict, codeConflict, "record already exists")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
