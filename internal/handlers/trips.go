package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
	"github.com/yoldas-app/yoldas-backend/internal/services"
)

type CreateTripInput struct {
	FromCity  string  `json:"from_city" binding:"required"`
	ToCity    string  `json:"to_city" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Time      string  `json:"time" binding:"required"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Seats     int     `json:"seats" binding:"required,gte=1"`
	Note      string  `json:"note"`
	CarModel  string  `json:"carModel"`
	CarColor  string  `json:"carColor"`
	CarNumber string  `json:"numberCar"`
}

// GetTrips lists active trips offered by other users
func GetTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var trips []models.Trip
		if err := db.Where("status = ? AND driver_id <> ?", models.TripStatusActive, userId).
			Preload("Driver").
			Order("date ASC").
			Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, gin.H{"trips": trips})
	}
}

// GetMyTrips lists the current user's own trips, newest first
func GetMyTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var trips []models.Trip
		if err := db.Unscoped().
			Where("driver_id = ?", userId).
			Order("created_at DESC").
			Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, gin.H{"trips": trips})
	}
}

// CreateTrip publishes a new trip owned by the current user
func CreateTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateTripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		trip := models.Trip{
			DriverID:       userId,
			FromCity:       input.FromCity,
			ToCity:         input.ToCity,
			Date:           date,
			Time:           input.Time,
			PricePerSeat:   input.Price,
			TotalSeats:     input.Seats,
			RemainingSeats: input.Seats,
			Note:           input.Note,
			CarModel:       input.CarModel,
			CarColor:       input.CarColor,
			CarNumber:      input.CarNumber,
			Status:         models.TripStatusActive,
		}

		if err := db.Create(&trip).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create trip"})
			return
		}

		c.JSON(201, trip)
	}
}

// UpdateTrip edits an active trip owned by the current user. The whole
// edit goes through the reservation engine under the trip lock, so a field
// edit can never write back a seat counter that an approval changed in the
// meantime.
func UpdateTrip(reservations *services.ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		var input struct {
			FromCity  string   `json:"from_city"`
			ToCity    string   `json:"to_city"`
			Date      string   `json:"date"`
			Time      string   `json:"time"`
			Price     *float64 `json:"price"`
			Seats     *int     `json:"seats"`
			Note      *string  `json:"note"`
			CarModel  *string  `json:"carModel"`
			CarColor  *string  `json:"carColor"`
			CarNumber *string  `json:"numberCar"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		edit := services.TripEdit{
			FromCity:  input.FromCity,
			ToCity:    input.ToCity,
			Time:      input.Time,
			Seats:     input.Seats,
			Note:      input.Note,
			CarModel:  input.CarModel,
			CarColor:  input.CarColor,
			CarNumber: input.CarNumber,
		}
		if input.Date != "" {
			date, err := time.Parse("2006-01-02", input.Date)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
			edit.Date = &date
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				c.JSON(400, gin.H{"error": "Price must be positive"})
				return
			}
			edit.Price = input.Price
		}

		trip, err := reservations.EditTrip(c.Request.Context(), uint(tripId), userId, edit)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(200, trip)
	}
}

// DeleteTrip cancels a trip and cascades cancellation to its bookings
func DeleteTrip(reservations *services.ReservationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		if err := reservations.CancelTrip(c.Request.Context(), uint(tripId), userId); err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Trip cancelled"})
	}
}

// CompleteTrip settles a trip: passengers pay the commission fee, the
// driver is credited, the trip becomes completed
func CompleteTrip(settlements *services.SettlementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		result, err := settlements.CompleteTrip(c.Request.Context(), uint(tripId), userId)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(200, result)
	}
}
