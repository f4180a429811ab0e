package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
	"github.com/yoldas-app/yoldas-backend/internal/services"
)

// GetChats lists conversation summaries: the latest message and unread
// count per (trip, peer) pair the user participates in.
func GetChats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var messages []models.ChatMessage
		if err := db.Where("sender_id = ? OR receiver_id = ?", userId, userId).
			Preload("Sender").
			Order("created_at DESC").
			Find(&messages).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch chats"})
			return
		}

		type conversation struct {
			TripID      uint               `json:"tripId"`
			PeerID      uint               `json:"peerId"`
			LastMessage models.ChatMessage `json:"lastMessage"`
			Unread      int                `json:"unread"`
		}

		seen := make(map[[2]uint]int)
		var conversations []conversation
		for _, m := range messages {
			peer := m.SenderID
			if peer == userId {
				peer = m.ReceiverID
			}
			key := [2]uint{m.TripID, peer}
			idx, ok := seen[key]
			if !ok {
				conversations = append(conversations, conversation{
					TripID:      m.TripID,
					PeerID:      peer,
					LastMessage: m,
				})
				idx = len(conversations) - 1
				seen[key] = idx
			}
			if m.ReceiverID == userId && !m.Read {
				conversations[idx].Unread++
			}
		}

		c.JSON(200, gin.H{"chats": conversations})
	}
}

// GetConversation returns the message history with one user on one trip
// and marks the received side as read.
func GetConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId := c.Param("tripId")
		peerId, err := strconv.ParseUint(c.Param("userId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user ID"})
			return
		}

		var messages []models.ChatMessage
		if err := db.Where(
			"trip_id = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			tripId, userId, peerId, peerId, userId).
			Order("created_at ASC").
			Find(&messages).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch messages"})
			return
		}

		// Read flags flip unread -> read only
		if err := db.Model(&models.ChatMessage{}).
			Where("trip_id = ? AND sender_id = ? AND receiver_id = ? AND read = false", tripId, peerId, userId).
			Update("read", true).Error; err == nil {
			_ = services.InvalidateUnreadCount(c.Request.Context(), userId)
		}

		c.JSON(200, gin.H{"messages": messages})
	}
}

// SendMessage appends a message to a trip conversation
func SendMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		tripId, err := strconv.ParseUint(c.Param("tripId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip ID"})
			return
		}

		var input struct {
			ReceiverID uint   `json:"receiver_id" binding:"required"`
			Message    string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.ReceiverID == userId {
			c.JSON(400, gin.H{"error": "Cannot message yourself"})
			return
		}

		var trip models.Trip
		if err := db.Unscoped().First(&trip, tripId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}

		message := models.ChatMessage{
			TripID:     uint(tripId),
			SenderID:   userId,
			ReceiverID: input.ReceiverID,
			Body:       input.Message,
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to send message"})
			return
		}

		_ = services.InvalidateUnreadCount(c.Request.Context(), input.ReceiverID)

		c.JSON(201, message)
	}
}

// GetUnreadCount returns the user's unread message total, served from the
// Redis cache when warm.
func GetUnreadCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		ctx := c.Request.Context()

		// Cache miss or Redis down; fall back to the database
		if count, err := services.GetUnreadCount(ctx, userId); err == nil {
			c.JSON(200, gin.H{"unread": count})
			return
		}

		var count int64
		if err := db.Model(&models.ChatMessage{}).
			Where("receiver_id = ? AND read = false", userId).
			Count(&count).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count unread messages"})
			return
		}

		_ = services.SetUnreadCount(ctx, userId, count)
		c.JSON(200, gin.H{"unread": count})
	}
}
