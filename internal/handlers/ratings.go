package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// CreateRating rates the other party of a completed trip. One rating per
// (trip, rater, rated) triple; both users must be linked by an approved
// booking on that trip.
func CreateRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId, err := strconv.ParseUint(c.Param("tripId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}
		ratedId, err := strconv.ParseUint(c.Param("userId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user ID"})
			return
		}
		if uint(ratedId) == userId {
			c.JSON(400, gin.H{"error": "Cannot rate yourself"})
			return
		}

		var input struct {
			Rating  int    `json:"rating" binding:"required,min=1,max=5"`
			Comment string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var trip models.Trip
		if err := db.Unscoped().First(&trip, tripId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}
		if trip.Status != models.TripStatusCompleted {
			c.JSON(409, gin.H{"error": "Trip is not completed"})
			return
		}

		// The rater/rated pair must be driver and passenger of this trip
		passengerId := userId
		if trip.DriverID == userId {
			passengerId = uint(ratedId)
		} else if trip.DriverID != uint(ratedId) {
			c.JSON(403, gin.H{"error": "No booking relationship on this trip"})
			return
		}

		var count int64
		if err := db.Model(&models.Booking{}).
			Where("trip_id = ? AND user_id = ? AND status = ?", tripId, passengerId, models.BookingStatusApproved).
			Count(&count).Error; err != nil || count == 0 {
			c.JSON(403, gin.H{"error": "No booking relationship on this trip"})
			return
		}

		var existing int64
		if err := db.Model(&models.Rating{}).
			Where("trip_id = ? AND from_user_id = ? AND to_user_id = ?", tripId, userId, ratedId).
			Count(&existing).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to check existing rating"})
			return
		}
		if existing > 0 {
			c.JSON(409, gin.H{"error": "You already rated this user for this trip"})
			return
		}

		rating := models.Rating{
			TripID:     uint(tripId),
			FromUserID: userId,
			ToUserID:   uint(ratedId),
			Score:      input.Rating,
			Comment:    input.Comment,
		}
		if err := db.Create(&rating).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create rating"})
			return
		}

		c.JSON(201, rating)
	}
}

// GetUserRatings lists ratings received by a user, with their average
func GetUserRatings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.Param("id")

		var ratings []models.Rating
		if err := db.Where("to_user_id = ?", userId).
			Preload("FromUser").
			Order("created_at DESC").
			Find(&ratings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ratings"})
			return
		}

		var average float64
		if len(ratings) > 0 {
			var sum int
			for _, r := range ratings {
				sum += r.Score
			}
			average = float64(sum) / float64(len(ratings))
		}

		c.JSON(200, gin.H{"ratings": ratings, "average": average})
	}
}

// GetGivenRatings lists ratings the current user has given
func GetGivenRatings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var ratings []models.Rating
		if err := db.Where("from_user_id = ?", userId).
			Order("created_at DESC").
			Find(&ratings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ratings"})
			return
		}

		c.JSON(200, gin.H{"ratings": ratings})
	}
}
