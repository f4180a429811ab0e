package client

import (
	"context"
	"fmt"
	"time"
)

// FetchChats replaces the conversation summaries collection.
func (c *Client) FetchChats(ctx context.Context) ([]Conversation, error) {
	var resp struct {
		Chats []Conversation `json:"chats"`
	}
	if err := c.get(ctx, "/chats", &resp); err != nil {
		c.Chats.fail(err)
		return nil, err
	}
	c.Chats.replaceAll(resp.Chats)
	return resp.Chats, nil
}

// FetchConversation loads the message history with one user on one trip.
// The server marks the received side read.
func (c *Client) FetchConversation(ctx context.Context, tripID, userID uint) ([]ChatMessage, error) {
	var resp struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.get(ctx, fmt.Sprintf("/chats/%d/with/%d", tripID, userID), &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// SendMessage posts a message into a trip conversation.
func (c *Client) SendMessage(ctx context.Context, tripID, receiverID uint, message string) (*ChatMessage, error) {
	var sent ChatMessage
	err := c.post(ctx, fmt.Sprintf("/chats/%d/send", tripID), map[string]interface{}{
		"receiver_id": receiverID,
		"message":     message,
	}, &sent)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

// FetchUnreadCount returns the total unread message count.
func (c *Client) FetchUnreadCount(ctx context.Context) (int64, error) {
	var resp struct {
		Unread int64 `json:"unread"`
	}
	if err := c.get(ctx, "/chats/unread-count", &resp); err != nil {
		return 0, err
	}
	return resp.Unread, nil
}

// NewChatPoller refreshes the conversation list on the given interval
// (DefaultPollInterval when zero). Stop it when the chat view unmounts.
func (c *Client) NewChatPoller(interval time.Duration) *Poller {
	return NewPoller(interval, func(ctx context.Context) {
		if _, err := c.FetchChats(ctx); err != nil {
			c.log.WithError(err).Debug("chat poll failed")
		}
	})
}
