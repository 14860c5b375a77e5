package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/domain"
)

// respondError maps domain error kinds onto HTTP status codes. Anything not
// in the taxonomy is a 500 with a generic body so storage details never
// leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "not found", "code": "not_found"}})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "unauthorized", "code": "unauthorized"}})
	case errors.Is(err, domain.ErrInvalidOrder):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": err.Error(), "code": "invalid_order"}})
	case errors.Is(err, domain.ErrNotEnrolled):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": err.Error(), "code": "not_enrolled"}})
	case errors.Is(err, domain.ErrNotEligible):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": err.Error(), "code": "not_eligible"}})
	case errors.Is(err, domain.ErrAlreadyIssued):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": err.Error(), "code": "already_issued"}})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error(), "code": "validation_failed"}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "internal error", "code": "internal"}})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": message, "code": "validation_failed"}})
}
