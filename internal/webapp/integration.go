package webapp

import (
	"net/http"
	"net/url"
	"strings"

	"procpanel.org/internal/gateway"
)

type integrationView struct {
	Keys gateway.IntegrationKeys
}

func (a *App) handleIntegration(w http.ResponseWriter, r *http.Request) {
	var view integrationView
	var flash *Flash

	keys, err := a.gw.Integration(r.Context(), currentSession(r).Token)
	if err != nil {
		f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить ключи интеграции")
		if redirected {
			return
		}
		flash = f
	} else {
		view.Keys = keys
	}

	a.renderFlash(w, r, "integration.html", "Интеграция", view, firstFlash(flash, takeFlash(w, r)))
}

func (a *App) handleIntegrationWebhook(w http.ResponseWriter, r *http.Request) {
	webhook := strings.TrimSpace(r.PostFormValue("webhook_url"))
	if webhook != "" {
		if u, err := url.Parse(webhook); err != nil || u.Scheme != "https" && u.Scheme != "http" {
			setFlash(w, "error", "Webhook URL должен быть валидным http(s) адресом")
			http.Redirect(w, r, "/integration", http.StatusSeeOther)
			return
		}
	}
	if err := a.gw.SetWebhookURL(r.Context(), currentSession(r).Token, webhook); err != nil {
		a.failAction(w, r, err, "Не удалось сохранить webhook", "/integration")
		return
	}
	a.completeAction(w, r, "Webhook URL сохранён", "/integration")
}

func (a *App) handleIntegrationTestMode(w http.ResponseWriter, r *http.Request) {
	enabled := r.PostFormValue("enabled") == "on" || r.PostFormValue("enabled") == "true"
	if err := a.gw.SetTestMode(r.Context(), currentSession(r).Token, enabled); err != nil {
		a.failAction(w, r, err, "Не удалось переключить тестовый режим", "/integration")
		return
	}
	msg := "Тестовый режим выключен"
	if enabled {
		msg = "Тестовый режим включён"
	}
	a.completeAction(w, r, msg, "/integration")
}

func (a *App) handleIntegrationRegenerate(w http.ResponseWriter, r *http.Request) {
	if err := a.gw.RegenerateKeys(r.Context(), currentSession(r).Token); err != nil {
		a.failAction(w, r, err, "Не удалось перевыпустить ключи", "/integration")
		return
	}
	a.completeAction(w, r, "Ключи перевыпущены", "/integration")
}
