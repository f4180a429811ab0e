package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// DBNotifier stores notifications for the client's polling view and
// publishes the event on Redis pub/sub for any interested consumer.
type DBNotifier struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewDBNotifier(db *gorm.DB, log *logrus.Logger) *DBNotifier {
	return &DBNotifier{db: db, log: log}
}

func (n *DBNotifier) Notify(ctx context.Context, userID uint, typ models.NotificationType, title, body string) error {
	notification := models.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
	}
	if err := n.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return err
	}

	if err := PublishNotification(ctx, &notification); err != nil {
		// Pub/sub is advisory; the stored row is the source of truth.
		n.log.WithError(err).Debug("failed to publish notification event")
	}
	return nil
}
