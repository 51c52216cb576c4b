package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/dayplan/internal/logger"
	"github.com/eleven-am/dayplan/internal/store"
)

// writeError maps store errors to HTTP responses. Every non-2xx response has
// the body shape {"error": <message>}.
//
// ValidationError -> 400, not found -> 404, duplicate key -> 409,
// foreign key -> 400, anything else -> 500.
func writeError(c *gin.Context, err error) {
	var ve store.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, store.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Duplicate entry"})
	case errors.Is(err, store.ErrForeignKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Foreign key constraint failed"})
	default:
		logger.HTTP().WithField("error", err.Error()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
