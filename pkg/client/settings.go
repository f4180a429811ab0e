package client

import (
	"context"
	"fmt"
	"net/url"
)

// FetchSettings lists the current user's settings.
func (c *Client) FetchSettings(ctx context.Context) ([]Setting, error) {
	var resp struct {
		Settings []Setting `json:"settings"`
	}
	if err := c.get(ctx, "/settings", &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

// FetchSetting returns one setting, falling back to the global default.
func (c *Client) FetchSetting(ctx context.Context, key string) (*Setting, error) {
	var setting Setting
	if err := c.get(ctx, "/settings/"+url.PathEscape(key), &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// SaveSetting creates or replaces a setting.
func (c *Client) SaveSetting(ctx context.Context, key, value string) (*Setting, error) {
	var setting Setting
	err := c.post(ctx, "/settings", map[string]string{"key": key, "value": value}, &setting)
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// DeleteSetting removes a setting.
func (c *Client) DeleteSetting(ctx context.Context, key string) error {
	if err := c.delete(ctx, fmt.Sprintf("/settings/%s", url.PathEscape(key))); err != nil {
		return err
	}
	return nil
}
