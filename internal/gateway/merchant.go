package gateway

import (
	"context"
	"net/http"
)

// Integration fetches the merchant's API credentials and webhook settings.
func (c *Client) Integration(ctx context.Context, token string) (IntegrationKeys, error) {
	var keys IntegrationKeys
	if err := c.call(ctx, "integration.get", http.MethodGet, "/merchant/integration", nil, token, nil, &keys); err != nil {
		return IntegrationKeys{}, err
	}
	return keys, nil
}

// SetWebhookURL updates the merchant webhook endpoint.
func (c *Client) SetWebhookURL(ctx context.Context, token, webhookURL string) error {
	payload := map[string]string{"url": webhookURL}
	return c.call(ctx, "integration.webhook", http.MethodPost, "/merchant/integration/webhook", nil, token, payload, nil)
}

// SetTestMode toggles the merchant sandbox mode.
func (c *Client) SetTestMode(ctx context.Context, token string, enabled bool) error {
	payload := map[string]bool{"enabled": enabled}
	return c.call(ctx, "integration.testmode", http.MethodPost, "/merchant/integration/test-mode", nil, token, payload, nil)
}

// RegenerateKeys rotates the merchant API keys. The old secret stops working
// immediately on the backend.
func (c *Client) RegenerateKeys(ctx context.Context, token string) error {
	return c.call(ctx, "integration.regenerate", http.MethodPost, "/merchant/integration/regenerate", nil, token, nil, nil)
}
