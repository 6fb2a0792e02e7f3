package webapp

import (
	"net/http"

	"procpanel.org/internal/gateway"
	"procpanel.org/internal/roles"
)

// notificationChannels are the toggles rendered on the settings page.
var notificationChannels = []string{"email", "telegram", "sms"}

type settingsView struct {
	User gateway.User
	// System is shown to admins only.
	System        gateway.SystemSettings
	ShowSystem    bool
	Notifications []string
}

func (a *App) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	view := settingsView{
		User:          sess.User,
		Notifications: notificationChannels,
		ShowSystem:    currentRole(r) == roles.Admin,
	}
	var flash *Flash

	if view.ShowSystem {
		system, err := a.gw.SystemSettings(r.Context(), sess.Token)
		if err != nil {
			f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить системные настройки")
			if redirected {
				return
			}
			flash = f
		} else {
			view.System = system
		}
	}

	a.renderFlash(w, r, "settings.html", "Настройки", view, firstFlash(flash, takeFlash(w, r)))
}

func (a *App) handleSettingsSystem(w http.ResponseWriter, r *http.Request) {
	if currentRole(r) != roles.Admin {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	settings := gateway.SystemSettings{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			settings[key] = values[0]
		}
	}
	if err := a.gw.UpdateSystemSettings(r.Context(), currentSession(r).Token, settings); err != nil {
		a.failAction(w, r, err, "Не удалось сохранить настройки", "/settings")
		return
	}
	a.completeAction(w, r, "Настройки сохранены", "/settings")
}

func (a *App) handleSettingsNotifications(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	channels := make(map[string]bool, len(notificationChannels))
	for _, ch := range notificationChannels {
		channels[ch] = r.PostFormValue(ch) == "on"
	}
	if err := a.gw.UpdateNotifications(r.Context(), currentSession(r).Token, channels); err != nil {
		a.failAction(w, r, err, "Не удалось сохранить уведомления", "/settings")
		return
	}
	a.completeAction(w, r, "Настройки уведомлений сохранены", "/settings")
}
