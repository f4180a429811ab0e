package client

import (
	"context"
	"fmt"
	"time"
)

// FetchNotifications replaces the notifications collection.
func (c *Client) FetchNotifications(ctx context.Context) ([]Notification, error) {
	var resp struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.get(ctx, "/notifications", &resp); err != nil {
		c.Notifications.fail(err)
		return nil, err
	}
	c.Notifications.replaceAll(resp.Notifications)
	return resp.Notifications, nil
}

// MarkNotificationRead flips one notification to read locally after the
// server confirms.
func (c *Client) MarkNotificationRead(ctx context.Context, id uint) error {
	if err := c.patch(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil); err != nil {
		c.Notifications.fail(err)
		return err
	}
	c.Notifications.mutate(id, func(n *Notification) { n.Read = true })
	return nil
}

// MarkAllNotificationsRead flips every cached notification to read after
// the server confirms.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.patch(ctx, "/notifications/read-all", nil, nil); err != nil {
		c.Notifications.fail(err)
		return err
	}
	items := c.Notifications.Items()
	for i := range items {
		items[i].Read = true
	}
	c.Notifications.replaceAll(items)
	return nil
}

// NewNotificationPoller refreshes notifications on the given interval
// (DefaultPollInterval when zero). Stop it when the view unmounts.
func (c *Client) NewNotificationPoller(interval time.Duration) *Poller {
	return NewPoller(interval, func(ctx context.Context) {
		if _, err := c.FetchNotifications(ctx); err != nil {
			c.log.WithError(err).Debug("notification poll failed")
		}
	})
}
