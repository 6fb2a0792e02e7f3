package gateway

import (
	"context"
	"net/http"
)

// SystemSettings fetches the backend settings document.
func (c *Client) SystemSettings(ctx context.Context, token string) (SystemSettings, error) {
	var settings SystemSettings
	if err := c.call(ctx, "settings.get", http.MethodGet, "/settings/system", nil, token, nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSystemSettings writes the settings document back.
func (c *Client) UpdateSystemSettings(ctx context.Context, token string, settings SystemSettings) error {
	return c.call(ctx, "settings.update", http.MethodPut, "/settings/system", nil, token, settings, nil)
}

// UpdateNotifications saves the operator's notification channel toggles.
func (c *Client) UpdateNotifications(ctx context.Context, token string, channels map[string]bool) error {
	return c.call(ctx, "settings.notifications", http.MethodPut, "/users/me/notifications", nil, token, channels, nil)
}
