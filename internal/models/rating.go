package models

import (
	"time"
)

// Rating is left by one trip participant about the other after completion.
// At most one rating exists per (trip, from, to) triple.
type Rating struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TripID     uint      `json:"tripId" gorm:"not null;uniqueIndex:idx_ratings_trip_from_to"`
	FromUserID uint      `json:"fromUserId" gorm:"not null;uniqueIndex:idx_ratings_trip_from_to"`
	FromUser   *User     `json:"fromUser,omitempty" gorm:"foreignKey:FromUserID"`
	ToUserID   uint      `json:"toUserId" gorm:"not null;uniqueIndex:idx_ratings_trip_from_to;index"`
	Score      int       `json:"score" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (Rating) TableName() string {
	return "ratings"
}
