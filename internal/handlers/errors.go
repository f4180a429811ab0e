package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yoldas-app/yoldas-backend/internal/services"
)

// serviceError maps reservation/settlement/wallet sentinel errors onto
// HTTP responses.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrNotOwner), errors.Is(err, services.ErrNotParticipant), errors.Is(err, services.ErrSelfBooking):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrNotApproved),
		errors.Is(err, services.ErrTripNotActive),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrSeatsBelowSold):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
