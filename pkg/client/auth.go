package client

import (
	"context"
	"net/http"
)

// Login exchanges phone and password for a bearer token and establishes
// the session.
func (c *Client) Login(ctx context.Context, phone, password string) (*User, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        *User  `json:"user"`
	}
	err := c.post(ctx, "/login", map[string]string{
		"phone":    phone,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.session.establish(resp.AccessToken, resp.User); err != nil {
		c.log.WithError(err).Warn("failed to persist session")
	}
	return resp.User, nil
}

// Register creates an account. It does not log in; callers follow up with
// Login, matching the app's two-step flow.
func (c *Client) Register(ctx context.Context, name, phone, password string) error {
	return c.post(ctx, "/register", map[string]string{
		"name":                  name,
		"phone":                 phone,
		"password":              password,
		"password_confirmation": password,
	}, nil)
}

// Logout clears the session locally.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// FetchProfile refreshes the current user's profile and updates the
// stored session copy.
func (c *Client) FetchProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/user", &user); err != nil {
		return nil, err
	}
	if err := c.session.establish(c.session.Token(), &user); err != nil {
		c.log.WithError(err).Warn("failed to persist session")
	}
	return &user, nil
}

// UpdateProfile patches name and/or phone.
func (c *Client) UpdateProfile(ctx context.Context, name, phone string) (*User, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if phone != "" {
		body["phone"] = phone
	}
	var user User
	if err := c.do(ctx, http.MethodPut, "/user", body, &user, nil); err != nil {
		return nil, err
	}
	if err := c.session.establish(c.session.Token(), &user); err != nil {
		c.log.WithError(err).Warn("failed to persist session")
	}
	return &user, nil
}
