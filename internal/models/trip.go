package models

import (
	"time"

	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

type Trip struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	DriverID       uint           `json:"driverId" gorm:"not null;index"`
	Driver         *User          `json:"driver,omitempty"`
	FromCity       string         `json:"fromCity" gorm:"column:from_city;not null"`
	ToCity         string         `json:"toCity" gorm:"column:to_city;not null"`
	Date           time.Time      `json:"date" gorm:"not null"`
	Time           string         `json:"time" gorm:"not null"`
	PricePerSeat   float64        `json:"pricePerSeat" gorm:"not null"`
	TotalSeats     int            `json:"totalSeats" gorm:"not null"`
	RemainingSeats int            `json:"remainingSeats" gorm:"not null"`
	Note           string         `json:"note"`
	CarModel       string         `json:"carModel"`
	CarColor       string         `json:"carColor"`
	CarNumber      string         `json:"carNumber"`
	Status         TripStatus     `json:"status" gorm:"not null;default:'active';index"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Trip) TableName() string {
	return "trips"
}

// SeatsSold returns the number of seats held by approved bookings.
func (t *Trip) SeatsSold() int {
	return t.TotalSeats - t.RemainingSeats
}
