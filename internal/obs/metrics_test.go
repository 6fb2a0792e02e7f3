package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                           "/",
		"/metrics":                   "/metrics",
		"/transactions":              "/transactions",
		"/transactions/42":           "/transactions/:id",
		"/transactions/42/approve":   "/transactions/:id/approve",
		"/wallets/w-9":               "/wallets/:id",
		"/orders/7/confirm":          "/orders/:id/confirm",
		"/requests/15/status":        "/requests/:id/status",
		"/transactions/export":       "/transactions/export",
		"/stats?period=week":         "/stats",
		"/transactions/9/reject?x=1": "/transactions/:id/reject",
		"/dashboard":                 "/dashboard",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
