package webapp

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"procpanel.org/internal/authflow"
	"procpanel.org/internal/gateway"
	"procpanel.org/internal/obs"
	"procpanel.org/internal/roles"
	"procpanel.org/internal/session"
)

// App is the HTTP layer of the panel.
type App struct {
	gw       *gateway.Client
	sessions *session.Manager
	flows    *authflow.Registry
	log      *zap.Logger

	rateBurst  int
	ratePerSec int

	closeOnce sync.Once
	done      chan struct{}
}

// New wires the panel surface.
func New(gw *gateway.Client, sessions *session.Manager, flows *authflow.Registry, log *zap.Logger) *App {
	return &App{
		gw:         gw,
		sessions:   sessions,
		flows:      flows,
		log:        log,
		rateBurst:  40,
		ratePerSec: 20,
		done:       make(chan struct{}),
	}
}

// Close stops the app's background goroutines. Idempotent.
func (a *App) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}

// Handler builds the full middleware chain around the router.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.router()
	h = maxBodyBytes(h, 1<<20)
	h = rateLimit(h, a.rateBurst, a.ratePerSec, a.done)
	h = securityHeaders(h)
	h = a.logging(h)
	return obs.Instrument(h)
}

func (a *App) router() *mux.Router {
	r := mux.NewRouter()

	// service endpoints
	r.HandleFunc("/healthz", a.handleHealthz).Methods("GET")
	r.Handle("/metrics", obs.Handler()).Methods("GET")
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(staticFS))).Methods("GET")

	// public
	r.HandleFunc("/login", a.handleLoginPage).Methods("GET")
	r.HandleFunc("/login", a.handleLoginSubmit).Methods("POST")
	r.HandleFunc("/login/wait", a.handleLoginWait).Methods("GET")
	r.HandleFunc("/login/cancel", a.handleLoginCancel).Methods("POST")
	r.HandleFunc("/register", a.handleRegisterPage).Methods("GET")
	r.HandleFunc("/register", a.handleRegisterSubmit).Methods("POST")
	r.HandleFunc("/unauthorized", a.handleUnauthorized).Methods("GET")
	r.HandleFunc("/logout", a.handleLogout).Methods("POST")

	// guarded pages
	r.HandleFunc("/", a.requireAuth("", a.handleIndex)).Methods("GET")
	r.HandleFunc("/dashboard", a.requireAuth("", a.handleDashboard)).Methods("GET")
	r.HandleFunc("/requests/{id}/status", a.requireAuth("", a.handleRequestStatus)).Methods("POST")

	r.HandleFunc("/transactions", a.requireAuth("", a.handleTransactions)).Methods("GET")
	r.HandleFunc("/transactions", a.requireAuth("", a.handleTransactionCreate)).Methods("POST")
	r.HandleFunc("/transactions/export", a.requireAuth("", a.handleTransactionsExport)).Methods("GET")
	r.HandleFunc("/transactions/{id}/approve", a.requireAuth("", a.handleTransactionApprove)).Methods("POST")
	r.HandleFunc("/transactions/{id}/reject", a.requireAuth("", a.handleTransactionReject)).Methods("POST")
	r.HandleFunc("/transactions/{id}/cancel", a.requireAuth("", a.handleTransactionCancel)).Methods("POST")

	r.HandleFunc("/wallets", a.requireAuth("", a.handleWallets)).Methods("GET")
	r.HandleFunc("/wallets", a.requireAuth("", a.handleWalletCreate)).Methods("POST")
	r.HandleFunc("/wallets/{id}/delete", a.requireAuth("", a.handleWalletDelete)).Methods("POST")

	r.HandleFunc("/orders", a.requireAuth(roles.Trader, a.handleOrders)).Methods("GET")
	r.HandleFunc("/orders/{id}/accept", a.requireAuth(roles.Trader, a.handleOrderAccept)).Methods("POST")
	r.HandleFunc("/orders/{id}/confirm", a.requireAuth(roles.Trader, a.handleOrderConfirm)).Methods("POST")

	r.HandleFunc("/stats", a.requireAuth("", a.handleStats)).Methods("GET")

	r.HandleFunc("/integration", a.requireAuth(roles.Merchant, a.handleIntegration)).Methods("GET")
	r.HandleFunc("/integration/webhook", a.requireAuth(roles.Merchant, a.handleIntegrationWebhook)).Methods("POST")
	r.HandleFunc("/integration/test-mode", a.requireAuth(roles.Merchant, a.handleIntegrationTestMode)).Methods("POST")
	r.HandleFunc("/integration/regenerate", a.requireAuth(roles.Merchant, a.handleIntegrationRegenerate)).Methods("POST")

	r.HandleFunc("/settings", a.requireAuth("", a.handleSettings)).Methods("GET")
	r.HandleFunc("/settings/system", a.requireAuth("", a.handleSettingsSystem)).Methods("POST")
	r.HandleFunc("/settings/notifications", a.requireAuth("", a.handleSettingsNotifications)).Methods("POST")

	r.HandleFunc("/faq", a.requireAuth("", a.handleFAQ)).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(a.handleNotFound)
	return r
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok","service":"processing-panel"}`))
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	a.renderBare(w, r, "notfound.html", "Страница не найдена", nil)
}

func (a *App) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	a.renderBare(w, r, "unauthorized.html", "Нет доступа", nil)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if sess, err := a.sessions.Resolve(ctx, r); err == nil && sess.Token != "" {
		// best-effort backend logout; the local session dies regardless
		if err := a.gw.Logout(ctx, sess.Token); err != nil {
			a.log.Debug("backend logout failed", zap.Error(err))
		}
	}
	a.sessions.Logout(ctx, w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// failAction handles a gateway error from a mutation: 401 kills the session
// globally, anything else flashes and leaves the view untouched (the
// operation is treated as not applied).
func (a *App) failAction(w http.ResponseWriter, r *http.Request, err error, fallback, backTo string) {
	if gateway.IsUnauthorized(err) {
		a.sessions.Logout(r.Context(), w, r)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	msg := gateway.UserMessage(err)
	if msg == "" {
		msg = fallback
	}
	setFlash(w, "error", msg)
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

// fetchFailed handles a gateway error on a page read: 401 redirects to login
// (redirected=true), anything else becomes an inline error flash for the page
// to render over empty data.
func (a *App) fetchFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) (flash *Flash, redirected bool) {
	if gateway.IsUnauthorized(err) {
		a.sessions.Logout(r.Context(), w, r)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, true
	}
	msg := gateway.UserMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &Flash{Kind: "error", Text: msg}, false
}

// completeAction flashes success and re-issues the read via redirect, so the
// view re-syncs with backend-authoritative state.
func (a *App) completeAction(w http.ResponseWriter, r *http.Request, message, backTo string) {
	setFlash(w, "success", message)
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}
