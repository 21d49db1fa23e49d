package handlers

import (
	"errors"
	"net/http"

	"quizroom/services"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service errors to the HTTP error taxonomy:
// validation and state conflicts are 400, unknown codes 404, authorization
// failures 403, anything else 500 with a details string.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err) || services.IsConflict(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

// bearerToken extracts the creator token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
