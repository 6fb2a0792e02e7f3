package webapp

import (
	"net/http"

	"procpanel.org/internal/gateway"
)

var statsPeriods = []string{"day", "week", "month", "year"}

type statsView struct {
	Overview gateway.StatsOverview
	Period   string
	Periods  []string
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if !validPeriod(period) {
		period = "week"
	}

	view := statsView{Period: period, Periods: statsPeriods}
	var flash *Flash

	overview, err := a.gw.StatsOverview(r.Context(), currentSession(r).Token, period)
	if err != nil {
		f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить статистику")
		if redirected {
			return
		}
		flash = f
	} else {
		view.Overview = overview
	}

	a.renderFlash(w, r, "stats.html", "Статистика", view, firstFlash(flash, takeFlash(w, r)))
}

func validPeriod(p string) bool {
	for _, v := range statsPeriods {
		if p == v {
			return true
		}
	}
	return false
}
