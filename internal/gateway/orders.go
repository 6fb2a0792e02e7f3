package gateway

import (
	"context"
	"net/http"
	"strconv"
)

// Orders lists the trader's work items with the stats block.
func (c *Client) Orders(ctx context.Context, token string) (OrdersResponse, error) {
	var resp OrdersResponse
	if err := c.call(ctx, "orders.list", http.MethodGet, "/trader/orders", nil, token, nil, &resp); err != nil {
		return OrdersResponse{}, err
	}
	return resp, nil
}

// AcceptOrder takes a pending order into processing.
func (c *Client) AcceptOrder(ctx context.Context, token string, id int64) error {
	return c.call(ctx, "orders.accept", http.MethodPost, "/trader/orders/"+strconv.FormatInt(id, 10)+"/accept", nil, token, nil, nil)
}

// ConfirmOrderPayment marks the order payment as received.
func (c *Client) ConfirmOrderPayment(ctx context.Context, token string, id int64) error {
	return c.call(ctx, "orders.confirm", http.MethodPost, "/trader/orders/"+strconv.FormatInt(id, 10)+"/confirm", nil, token, nil, nil)
}
