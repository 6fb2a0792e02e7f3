package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// StatsPeriods enumerates the accepted overview periods.
var StatsPeriods = []string{"day", "week", "month", "year"}

// StatsOverview fetches aggregated stats for the period.
func (c *Client) StatsOverview(ctx context.Context, token, period string) (StatsOverview, error) {
	query := url.Values{"period": {period}}
	var overview StatsOverview
	if err := c.call(ctx, "stats.overview", http.MethodGet, "/stats/overview", query, token, nil, &overview); err != nil {
		return StatsOverview{}, err
	}
	return overview, nil
}

// Requests lists payment requests for the dashboard.
func (c *Client) Requests(ctx context.Context, token string) ([]Request, error) {
	var resp struct {
		Items []Request `json:"items"`
	}
	if err := c.call(ctx, "requests.list", http.MethodGet, "/requests", nil, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// RequestStats folds the backend's per-status count rows into the dashboard
// summary block.
func (c *Client) RequestStats(ctx context.Context, token string) (RequestStats, error) {
	var resp struct {
		Stats []struct {
			Status string `json:"status"`
			Count  int    `json:"count,string"`
		} `json:"stats"`
		Total int `json:"total"`
	}
	if err := c.call(ctx, "requests.stats", http.MethodGet, "/requests/stats", nil, token, nil, &resp); err != nil {
		return RequestStats{}, err
	}
	stats := RequestStats{Total: resp.Total}
	for _, row := range resp.Stats {
		switch row.Status {
		case "pending":
			stats.Pending = row.Count
		case "approved":
			stats.Approved = row.Count
		case "rejected":
			stats.Rejected = row.Count
		}
	}
	return stats, nil
}

// UpdateRequestStatus approves or rejects a payment request.
func (c *Client) UpdateRequestStatus(ctx context.Context, token string, id int64, status string) error {
	payload := map[string]string{"status": status}
	return c.call(ctx, "requests.status", http.MethodPatch, "/requests/"+strconv.FormatInt(id, 10)+"/status", nil, token, payload, nil)
}
