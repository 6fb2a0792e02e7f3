package gateway

import (
	"context"
	"net/http"
)

// Login submits an opaque access token. The backend either issues a session
// token directly or starts the Telegram confirmation handshake.
func (c *Client) Login(ctx context.Context, accessToken string) (LoginResponse, error) {
	var resp LoginResponse
	payload := map[string]string{"token": accessToken}
	if err := c.call(ctx, "auth.login", http.MethodPost, "/auth/login", nil, "", payload, &resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// Confirm asks whether the pending login identified by code has been approved
// in Telegram. 400/401 responses mean "not yet" and are surfaced unchanged for
// the flow to retry on.
func (c *Client) Confirm(ctx context.Context, code string) (ConfirmResponse, error) {
	var resp ConfirmResponse
	payload := map[string]string{"code": code}
	if err := c.call(ctx, "auth.confirm", http.MethodPost, "/auth/confirm", nil, "", payload, &resp); err != nil {
		return ConfirmResponse{}, err
	}
	return resp, nil
}

// Me resolves the profile behind a session token.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var user User
	if err := c.call(ctx, "auth.me", http.MethodGet, "/auth/me", nil, token, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout invalidates the session token on the backend. Best-effort: the panel
// clears its session either way.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, "auth.logout", http.MethodPost, "/auth/logout", nil, token, nil, nil)
}

// Register proxies the registration form.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.call(ctx, "auth.register", http.MethodPost, "/auth/register", nil, "", req, nil)
}
