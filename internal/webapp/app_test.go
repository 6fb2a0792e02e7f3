package webapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"procpanel.org/internal/authflow"
	"procpanel.org/internal/gateway"
	"procpanel.org/internal/session"
)

const testToken = "0123456789abcdef0123456789abcdef01234567" // 40 chars

// upstream is a scriptable fake of the processing API.
type upstream struct {
	mux   *http.ServeMux
	calls atomic.Int64

	loginResponse  func() (int, any)
	listStatus     int
	approveStatus  int
	approveMessage string
	role           string
}

func newUpstream() *upstream {
	u := &upstream{
		mux:           http.NewServeMux(),
		listStatus:    http.StatusOK,
		approveStatus: http.StatusOK,
		role:          "admin",
	}
	u.loginResponse = func() (int, any) {
		return http.StatusOK, gateway.LoginResponse{
			Token: testToken,
			User:  &gateway.User{ID: "u1", Email: "op@example.com", Role: u.role},
		}
	}

	u.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		status, body := u.loginResponse()
		writeJSON(w, status, body)
	})
	u.mux.HandleFunc("POST /auth/confirm", func(w http.ResponseWriter, r *http.Request) {
		// the operator never confirms in tests
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not confirmed"})
	})
	u.mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, gateway.User{ID: "u1", Email: "op@example.com", Role: u.role})
	})
	u.mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	u.mux.HandleFunc("GET /transactions", func(w http.ResponseWriter, r *http.Request) {
		if u.listStatus != http.StatusOK {
			writeJSON(w, u.listStatus, map[string]string{"error": "nope"})
			return
		}
		writeJSON(w, http.StatusOK, gateway.TransactionPage{
			Items: []gateway.Transaction{{ID: "tx-1", Amount: 100, Currency: "RUB", Status: "pending", Type: "deposit"}},
			Total: 1, Page: 1, Limit: 20,
		})
	})
	u.mux.HandleFunc("POST /transactions/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		if u.approveStatus != http.StatusOK {
			writeJSON(w, u.approveStatus, map[string]string{"error": u.approveMessage})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	u.mux.HandleFunc("GET /wallets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []gateway.Wallet{})
	})
	u.mux.HandleFunc("GET /requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []gateway.Request{{ID: 7, Type: "deposit", Amount: 50, Currency: "RUB", Status: "pending"}}})
	})
	u.mux.HandleFunc("GET /requests/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"stats": []map[string]string{{"status": "pending", "count": "1"}},
			"total": 1,
		})
	})
	u.mux.HandleFunc("GET /trader/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gateway.OrdersResponse{
			Orders: []gateway.Order{
				{ID: 1, AmountRUB: 5000, AmountUSD: 55, Status: "pending", Card: gateway.OrderCard{Number: "2200 **** 1234", Bank: "Т-Банк"}},
				{ID: 2, AmountRUB: 9000, AmountUSD: 99, Status: "processing"},
			},
			Stats: gateway.OrderStats{Available: 1, Processing: 1},
		})
	})
	return u
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.calls.Add(1)
	u.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// newTestPanel wires the full stack against the fake upstream.
func newTestPanel(t *testing.T, up *upstream) (*httptest.Server, *App) {
	t.Helper()

	upstreamSrv := httptest.NewServer(up)
	t.Cleanup(upstreamSrv.Close)

	store := session.NewMemoryStore(time.Hour)
	codec, err := session.NewCookieCodec("test-secret-test-secret-test-secret", time.Hour, false)
	if err != nil {
		t.Fatalf("cookie codec: %v", err)
	}
	sessions := session.NewManager(store, codec)

	gw := gateway.New(upstreamSrv.URL,
		gateway.WithOnUnauthorized(func(ctx context.Context) {
			if id, ok := session.IDFromContext(ctx); ok {
				sessions.Drop(ctx, id)
			}
		}))

	flows := authflow.NewRegistry(gw, time.Minute)
	app := New(gw, sessions, flows, zap.NewNop())
	t.Cleanup(app.Close)

	panel := httptest.NewServer(app.Handler())
	t.Cleanup(panel.Close)
	return panel, app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func login(t *testing.T, browser *http.Client, panel *httptest.Server) {
	t.Helper()
	resp, err := browser.PostForm(panel.URL+"/login", url.Values{"token": {testToken}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("login redirect = %q, want /dashboard", loc)
	}
}

func TestCloseIsIdempotentAndLeavesHandlerServing(t *testing.T) {
	up := newUpstream()
	panel, app := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	app.Close()
	app.Close()

	// Close only stops background cleanup; the handler itself keeps serving
	resp, err := browser.Get(panel.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestLoginDirectGrant(t *testing.T) {
	up := newUpstream()
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)

	login(t, browser, panel)

	resp, err := browser.Get(panel.URL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Панель управления") {
		t.Fatalf("dashboard body missing title:\n%s", body)
	}
}

func TestLoginShortTokenMakesNoUpstreamCall(t *testing.T) {
	up := newUpstream()
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)

	resp, err := browser.PostForm(panel.URL+"/login", url.Values{"token": {"short"}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (inline error)", resp.StatusCode)
	}
	if !strings.Contains(readBody(t, resp), "минимум 32 символа") {
		t.Fatal("expected inline validation message")
	}
	if got := up.calls.Load(); got != 0 {
		t.Fatalf("upstream saw %d calls, want 0", got)
	}
}

func TestLoginTelegramConfirmationScreen(t *testing.T) {
	up := newUpstream()
	up.loginResponse = func() (int, any) {
		return http.StatusOK, gateway.LoginResponse{RequiresTelegramConfirmation: true, Code: "ABC123"}
	}
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)

	resp, err := browser.PostForm(panel.URL+"/login", url.Values{"token": {testToken}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want redirect to wait page", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login/wait" {
		t.Fatalf("redirect = %q, want /login/wait", loc)
	}

	resp, err = browser.Get(panel.URL + "/login/wait")
	if err != nil {
		t.Fatalf("wait page: %v", err)
	}
	defer resp.Body.Close()
	body := readBody(t, resp)
	if !strings.Contains(body, "ABC123") {
		t.Fatalf("wait page missing confirmation code:\n%s", body)
	}
	if !strings.Contains(body, `action="/login/cancel"`) {
		t.Fatal("wait page missing cancel form")
	}

	// cancelling returns to the login form
	resp, err = browser.Post(panel.URL+"/login/cancel", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("cancel redirect = %q, want /login", loc)
	}
}

func TestGuardRedirectsAnonymousPreservingOrigin(t *testing.T) {
	panel, _ := newTestPanel(t, newUpstream())
	browser := newBrowser(t)

	resp, err := browser.Get(panel.URL + "/transactions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login?from="+url.QueryEscape("/transactions") {
		t.Fatalf("redirect = %q, want origin preserved", loc)
	}
}

func TestGuardRoleMismatchGoesToUnauthorized(t *testing.T) {
	up := newUpstream()
	up.role = "merchant"
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	resp, err := browser.Get(panel.URL + "/orders")
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	defer resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/unauthorized" {
		t.Fatalf("redirect = %q, want /unauthorized", loc)
	}
}

func TestSuperRolePassesRoleRestrictedView(t *testing.T) {
	up := newUpstream()
	up.role = "admin"
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	resp, err := browser.Get(panel.URL + "/orders")
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("orders status = %d, want 200 for admin", resp.StatusCode)
	}
}

func TestUpstream401KillsSessionGlobally(t *testing.T) {
	up := newUpstream()
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	// the backend stops accepting the token on an ordinary data read
	up.listStatus = http.StatusUnauthorized
	resp, err := browser.Get(panel.URL + "/transactions")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("redirect = %q, want /login", loc)
	}

	// the session is gone: even recovered pages bounce to login
	up.listStatus = http.StatusOK
	resp, err = browser.Get(panel.URL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect (session dropped)", resp.StatusCode)
	}
}

func TestPendingOrderOffersAcceptAction(t *testing.T) {
	up := newUpstream()
	up.role = "trader"
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	resp, err := browser.Get(panel.URL + "/orders")
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	defer resp.Body.Close()
	body := readBody(t, resp)
	if !strings.Contains(body, `action="/orders/1/accept"`) {
		t.Fatalf("pending order must render an accept form:\n%s", body)
	}
	if !strings.Contains(body, `action="/orders/2/confirm"`) {
		t.Fatal("processing order must render a confirm-payment form")
	}
}

func TestTransactionTypeOptionsMatchBackendEnum(t *testing.T) {
	panel, _ := newTestPanel(t, newUpstream())
	browser := newBrowser(t)
	login(t, browser, panel)

	resp, err := browser.Get(panel.URL + "/transactions")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	defer resp.Body.Close()
	body := readBody(t, resp)
	for _, typ := range []string{"deposit", "withdrawal", "exchange"} {
		if !strings.Contains(body, `value="`+typ+`"`) {
			t.Fatalf("transactions page missing type option %q", typ)
		}
	}
	if strings.Contains(body, `value="transfer"`) {
		t.Fatal("transfer is not a backend transaction type")
	}
}

func TestMutationRedirectsBackToListing(t *testing.T) {
	up := newUpstream()
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	resp, err := browser.Post(panel.URL+"/transactions/tx-1/approve", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/transactions" {
		t.Fatalf("redirect = %q, want /transactions (re-read after mutation)", loc)
	}

	resp, err = browser.Get(panel.URL + "/transactions")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	defer resp.Body.Close()
	if !strings.Contains(readBody(t, resp), "Транзакция подтверждена") {
		t.Fatal("expected success flash after redirect")
	}
}

func TestBusinessRejectionKeepsSessionAndFlashesError(t *testing.T) {
	up := newUpstream()
	up.approveStatus = http.StatusBadRequest
	up.approveMessage = "Недостаточно средств"
	panel, _ := newTestPanel(t, up)
	browser := newBrowser(t)
	login(t, browser, panel)

	resp, err := browser.Post(panel.URL+"/transactions/tx-1/approve", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/transactions" {
		t.Fatalf("redirect = %q, want back to listing", loc)
	}

	resp, err = browser.Get(panel.URL + "/transactions")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, session should survive a 400", resp.StatusCode)
	}
	if !strings.Contains(readBody(t, resp), "Недостаточно средств") {
		t.Fatal("expected backend error message in flash")
	}
}
