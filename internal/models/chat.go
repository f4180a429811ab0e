package models

import (
	"time"
)

// ChatMessage is an append-only message scoped to a trip and a sender/receiver
// pair. Read flips from false to true once and never back.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TripID     uint      `json:"tripId" gorm:"not null;index:idx_chat_trip_pair"`
	SenderID   uint      `json:"senderId" gorm:"not null;index:idx_chat_trip_pair"`
	Sender     *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uint      `json:"receiverId" gorm:"not null;index:idx_chat_trip_pair"`
	Body       string    `json:"message" gorm:"column:body;not null"`
	Read       bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}
