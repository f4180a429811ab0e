package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether the status can never change again.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	TripID         uint          `json:"tripId" gorm:"not null;index"`
	Trip           *Trip         `json:"trip,omitempty"`
	UserID         uint          `json:"userId" gorm:"not null;index"`
	User           *User         `json:"user,omitempty"`
	Seats          int           `json:"seats" gorm:"not null"`
	Status         BookingStatus `json:"status" gorm:"not null;default:'pending';index"`
	IdempotencyKey string        `json:"-" gorm:"column:idempotency_key;index"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
