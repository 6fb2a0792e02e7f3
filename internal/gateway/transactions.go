package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Transactions lists transactions scoped by filter.
func (c *Client) Transactions(ctx context.Context, token string, f TransactionFilter) (TransactionPage, error) {
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.Type != "" {
		query.Set("type", f.Type)
	}
	var page TransactionPage
	if err := c.call(ctx, "transactions.list", http.MethodGet, "/transactions", query, token, nil, &page); err != nil {
		return TransactionPage{}, err
	}
	return page, nil
}

// CreateTransaction submits a manual transaction.
func (c *Client) CreateTransaction(ctx context.Context, token string, req CreateTransaction) error {
	return c.call(ctx, "transactions.create", http.MethodPost, "/transactions", nil, token, req, nil)
}

// ApproveTransaction asks the backend to approve a pending transaction.
// The status transition happens entirely on the backend.
func (c *Client) ApproveTransaction(ctx context.Context, token, id string) error {
	return c.call(ctx, "transactions.approve", http.MethodPost, "/transactions/"+url.PathEscape(id)+"/approve", nil, token, nil, nil)
}

// RejectTransaction rejects a transaction with a reason.
func (c *Client) RejectTransaction(ctx context.Context, token, id, reason string) error {
	payload := map[string]string{"reason": reason}
	return c.call(ctx, "transactions.reject", http.MethodPost, "/transactions/"+url.PathEscape(id)+"/reject", nil, token, payload, nil)
}

// CancelTransaction cancels a transaction.
func (c *Client) CancelTransaction(ctx context.Context, token, id string) error {
	return c.call(ctx, "transactions.cancel", http.MethodPost, "/transactions/"+url.PathEscape(id)+"/cancel", nil, token, nil, nil)
}
