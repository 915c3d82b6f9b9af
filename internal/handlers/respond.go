package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// respondError maps a service error to an HTTP status and writes the JSON
// error body. Unclassified errors become 500s without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case models.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case models.IsInvalidState(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case models.IsTransaction(err):
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking system temporarily unavailable, please retry"})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
