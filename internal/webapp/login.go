package webapp

import (
	"net/http"
	"net/url"
	"strings"

	"procpanel.org/internal/authflow"
)

const flowCookie = "panel_login_flow"

// loginView feeds the login form template.
type loginView struct {
	// FieldError is an inline validation message on the token field.
	FieldError string
	From       string
}

// waitView feeds the Telegram waiting screen.
type waitView struct {
	Code string
	From string
}

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// an already authenticated browser goes straight to the dashboard
	if sess, err := a.sessions.Resolve(r.Context(), r); err == nil && sess.Token != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	a.renderBare(w, r, "login.html", "Вход в систему", loginView{From: loginReturnPath(r)})
}

// handleLoginSubmit runs the access-token submission. Validation failures stay
// inline; a direct grant logs in; a Telegram handshake moves the browser to
// the waiting screen.
func (a *App) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	accessToken := strings.TrimSpace(r.PostFormValue("token"))
	from := loginReturnPath(r)

	if len(accessToken) < authflow.MinTokenLength {
		// inline, no network call
		a.renderBare(w, r, "login.html", "Вход в систему", loginView{
			FieldError: "Токен должен содержать минимум 32 символа",
			From:       from,
		})
		return
	}

	flowID, flow := a.flows.Create()

	if err := flow.Submit(r.Context(), accessToken); err != nil {
		a.flows.Remove(flowID)
		snap := flow.Snapshot()
		msg := snap.Err
		if msg == "" {
			msg = "Ошибка при входе"
		}
		a.renderFlash(w, r, "login.html", "Вход в систему", loginView{From: from}, &Flash{Kind: "error", Text: msg})
		return
	}

	snap := flow.Snapshot()
	switch snap.State {
	case authflow.StateAuthenticated:
		a.flows.Remove(flowID)
		a.finishLogin(w, r, snap, from)
	case authflow.StateAwaitingConfirmation:
		a.setFlowCookie(w, flowID)
		target := "/login/wait"
		if from != "" {
			target += "?from=" + url.QueryEscape(from)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	default:
		a.flows.Remove(flowID)
		a.renderFlash(w, r, "login.html", "Вход в систему", loginView{From: from},
			&Flash{Kind: "error", Text: "Неожиданный ответ от сервера"})
	}
}

// handleLoginWait is the Telegram confirmation screen. It refreshes itself on
// the flow's cadence until the poll task lands the handshake.
func (a *App) handleLoginWait(w http.ResponseWriter, r *http.Request) {
	from := loginReturnPath(r)
	flowID, flow, ok := a.currentFlow(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	snap := flow.Snapshot()
	switch snap.State {
	case authflow.StateAuthenticated:
		a.flows.Remove(flowID)
		a.clearFlowCookie(w)
		a.finishLogin(w, r, snap, from)
	case authflow.StateAwaitingConfirmation:
		a.renderBareRefresh(w, r, "login_wait.html", "Подтверждение через Telegram", waitView{Code: snap.Code, From: from}, 2)
	case authflow.StateFailed:
		a.flows.Remove(flowID)
		a.clearFlowCookie(w)
		a.renderFlash(w, r, "login.html", "Вход в систему", loginView{From: from},
			&Flash{Kind: "error", Text: snap.Err})
	default:
		a.flows.Remove(flowID)
		a.clearFlowCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// handleLoginCancel abandons the handshake and returns to the form.
func (a *App) handleLoginCancel(w http.ResponseWriter, r *http.Request) {
	if flowID, flow, ok := a.currentFlow(r); ok {
		flow.Cancel()
		a.flows.Remove(flowID)
	}
	a.clearFlowCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// finishLogin populates the session store and sends the browser back where it
// was headed, defaulting to the dashboard.
func (a *App) finishLogin(w http.ResponseWriter, r *http.Request, snap authflow.Snapshot, from string) {
	if _, err := a.sessions.Login(r.Context(), w, r, snap.Token, snap.User); err != nil {
		a.renderFlash(w, r, "login.html", "Вход в систему", loginView{From: from},
			&Flash{Kind: "error", Text: "Не удалось сохранить сессию"})
		return
	}
	target := "/dashboard"
	if from != "" && strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
		target = from
	}
	setFlash(w, "success", "Вход выполнен успешно")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (a *App) currentFlow(r *http.Request) (string, *authflow.Flow, bool) {
	cookie, err := r.Cookie(flowCookie)
	if err != nil || cookie.Value == "" {
		return "", nil, false
	}
	flow, ok := a.flows.Get(cookie.Value)
	if !ok {
		return "", nil, false
	}
	return cookie.Value, flow, true
}

func (a *App) setFlowCookie(w http.ResponseWriter, flowID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookie,
		Value:    flowID,
		Path:     "/login",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   15 * 60,
	})
}

func (a *App) clearFlowCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: flowCookie, Value: "", Path: "/login", MaxAge: -1})
}

// loginReturnPath extracts the preserved origin path from the query or form.
func loginReturnPath(r *http.Request) string {
	from := r.URL.Query().Get("from")
	if from == "" {
		from = r.PostFormValue("from")
	}
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return ""
	}
	return from
}
