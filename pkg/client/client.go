package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUnauthorized is returned after a 401 response. The session has
// already been cleared and listeners notified by the time callers see it.
var ErrUnauthorized = errors.New("session expired")

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the backend and maintains the local collections the app
// renders from. Collections change only after server confirmation; a
// failed call leaves them untouched.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionContext
	log     *logrus.Logger

	Trips         *Collection[Trip, uint]
	MyTrips       *Collection[Trip, uint]
	Bookings      *Collection[Booking, uint]
	Chats         *Collection[Conversation, [2]uint]
	Notifications *Collection[Notification, uint]
	Transactions  *Collection[Transaction, uint]
}

func New(baseURL string, session *SessionContext, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
		log:     log,

		Trips:         NewCollection(func(t Trip) uint { return t.ID }),
		MyTrips:       NewCollection(func(t Trip) uint { return t.ID }),
		Bookings:      NewCollection(func(b Booking) uint { return b.ID }),
		Chats:         NewCollection(func(c Conversation) [2]uint { return [2]uint{c.TripID, c.PeerID} }),
		Notifications: NewCollection(func(n Notification) uint { return n.ID }),
		Transactions:  NewCollection(func(t Transaction) uint { return t.ID }),
	}
}

// Session exposes the session context for views and route guards.
func (c *Client) Session() *SessionContext {
	return c.session
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn("session rejected by server, logging out")
		if err := c.session.Clear(); err != nil {
			c.log.WithError(err).Warn("failed to clear stored session")
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed struct {
			Error string `json:"error"`
		}
		message := "request failed"
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
			message = parsed.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out, nil)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
