package gateway

import (
	"context"
	"net/http"
	"net/url"
)

// Wallets lists all wallets visible to the caller.
func (c *Client) Wallets(ctx context.Context, token string) ([]Wallet, error) {
	var wallets []Wallet
	if err := c.call(ctx, "wallets.list", http.MethodGet, "/wallets", nil, token, nil, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// CreateWallet creates a wallet.
func (c *Client) CreateWallet(ctx context.Context, token string, req CreateWallet) error {
	return c.call(ctx, "wallets.create", http.MethodPost, "/wallets", nil, token, req, nil)
}

// DeleteWallet removes a wallet.
func (c *Client) DeleteWallet(ctx context.Context, token, id string) error {
	return c.call(ctx, "wallets.delete", http.MethodDelete, "/wallets/"+url.PathEscape(id), nil, token, nil, nil)
}

// WalletBalance refetches a single wallet's backend-authoritative balance.
func (c *Client) WalletBalance(ctx context.Context, token, id string) (Wallet, error) {
	var wallet Wallet
	if err := c.call(ctx, "wallets.balance", http.MethodGet, "/wallets/"+url.PathEscape(id)+"/balance", nil, token, nil, &wallet); err != nil {
		return Wallet{}, err
	}
	return wallet, nil
}
