package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetUnreadCount caches a user's unread chat message count. The chat
// handlers invalidate it on send and on read.
func SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	key := fmt.Sprintf("chat:unread:%d", userID)
	return RedisClient.Set(ctx, key, strconv.FormatInt(count, 10), 5*time.Minute).Err()
}

// GetUnreadCount retrieves a cached unread count. Returns redis.Nil when
// the cache is cold.
func GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	key := fmt.Sprintf("chat:unread:%d", userID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(result, 10, 64)
}

// InvalidateUnreadCount drops the cached unread count for a user
func InvalidateUnreadCount(ctx context.Context, userID uint) error {
	key := fmt.Sprintf("chat:unread:%d", userID)
	return RedisClient.Del(ctx, key).Err()
}

// PublishBookingUpdate publishes a booking status transition to Redis pub/sub
func PublishBookingUpdate(ctx context.Context, tripID, bookingID uint, status models.BookingStatus) error {
	updateData := map[string]interface{}{
		"tripId":    tripID,
		"bookingId": bookingID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:updates", data).Err()
}

// PublishNotification publishes a stored notification to Redis pub/sub
func PublishNotification(ctx context.Context, n *models.Notification) error {
	data, err := json.Marshal(map[string]interface{}{
		"userId":    n.UserID,
		"type":      n.Type,
		"title":     n.Title,
		"timestamp": n.CreatedAt.Unix(),
	})
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "notification:events", data).Err()
}
