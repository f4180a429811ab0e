package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
	"github.com/yoldas-app/yoldas-backend/internal/services"
)

// CreateBooking requests seats on a trip. Retries may carry an
// Idempotency-Key header (or idempotency_key field) so an ambiguous
// network failure cannot create a duplicate pending booking.
func CreateBooking(reservations *services.ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		var input struct {
			Seats          int    `json:"seats" binding:"required,gte=1"`
			IdempotencyKey string `json:"idempotency_key"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		idemKey := c.GetHeader("Idempotency-Key")
		if idemKey == "" {
			idemKey = input.IdempotencyKey
		}

		booking, err := reservations.RequestBooking(c.Request.Context(), uint(tripId), userId, input.Seats, idemKey)
		if err != nil {
			serviceError(c, err)
			return
		}

		publishUpdate(c, booking)
		c.JSON(201, booking)
	}
}

// UpdateBookingStatus lets the trip owner confirm or decline a pending
// booking. Wire statuses follow the mobile client: confirmed/declined.
func UpdateBookingStatus(reservations *services.ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required,oneof=confirmed declined"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking *models.Booking
		if input.Status == "confirmed" {
			booking, err = reservations.Approve(c.Request.Context(), uint(bookingId), userId)
		} else {
			booking, err = reservations.Reject(c.Request.Context(), uint(bookingId), userId)
		}
		if err != nil {
			serviceError(c, err)
			return
		}

		publishUpdate(c, booking)
		c.JSON(200, booking)
	}
}

// CancelBooking releases an approved booking's seats back to the trip
func CancelBooking(reservations *services.ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		booking, err := reservations.Cancel(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			serviceError(c, err)
			return
		}

		publishUpdate(c, booking)
		c.JSON(200, booking)
	}
}

// GetMyBookings lists the current user's bookings with their trips
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("user_id = ?", userId).
			Preload("Trip").
			Preload("Trip.Driver").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetTripBookings lists bookings on a trip for its owner. An optional
// ?status= query narrows the list, e.g. status=pending for the requests
// still awaiting a decision.
func GetTripBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId := c.Param("id")

		var trip models.Trip
		if err := db.First(&trip, tripId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}
		if trip.DriverID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		query := db.Where("trip_id = ?", tripId)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var bookings []models.Booking
		if err := query.
			Preload("User").
			Order("created_at ASC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

func publishUpdate(c *gin.Context, booking *models.Booking) {
	// Pub/sub consumers are advisory; failures never affect the response
	_ = services.PublishBookingUpdate(c.Request.Context(), booking.TripID, booking.ID, booking.Status)
}
