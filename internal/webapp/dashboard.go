package webapp

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"procpanel.org/internal/gateway"
)

// dashboardView feeds the dashboard template.
type dashboardView struct {
	Requests []gateway.Request
	Stats    gateway.RequestStats
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := currentSession(r).Token

	var view dashboardView
	var flash *Flash

	requests, err := a.gw.Requests(ctx, token)
	if err != nil {
		f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить заявки")
		if redirected {
			return
		}
		flash = f
	} else {
		view.Requests = requests
		if stats, err := a.gw.RequestStats(ctx, token); err == nil {
			view.Stats = stats
		}
	}

	a.renderFlash(w, r, "dashboard.html", "Панель управления", view, firstFlash(flash, takeFlash(w, r)))
}

// handleRequestStatus applies an approve/reject decision to a payment request.
func (a *App) handleRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad request id", http.StatusBadRequest)
		return
	}
	status := r.PostFormValue("status")
	if status != "approved" && status != "rejected" {
		http.Error(w, "bad status", http.StatusBadRequest)
		return
	}

	token := currentSession(r).Token
	if err := a.gw.UpdateRequestStatus(r.Context(), token, id, status); err != nil {
		a.failAction(w, r, err, "Не удалось обновить заявку", "/dashboard")
		return
	}
	a.completeAction(w, r, "Статус заявки обновлён", "/dashboard")
}

// firstFlash prefers an in-request fetch error over the PRG cookie.
func firstFlash(inline, cookie *Flash) *Flash {
	if inline != nil {
		return inline
	}
	return cookie
}
