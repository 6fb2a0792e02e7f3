package webapp

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"procpanel.org/internal/gateway"
	"procpanel.org/internal/roles"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// Flash is a one-shot notification carried across the POST-redirect-GET hop.
type Flash struct {
	Kind string // "success" | "error"
	Text string
}

const flashCookie = "panel_flash"

// setFlash stores the notification for the next page render.
func setFlash(w http.ResponseWriter, kind, text string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + text),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// takeFlash reads and clears the pending notification.
func takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '|' {
			return &Flash{Kind: raw[:i], Text: raw[i+1:]}
		}
	}
	return nil
}

// pageData is the layout contract shared by every rendered view.
type pageData struct {
	Title  string
	User   gateway.User
	Menu   []roles.MenuItem
	Active string
	Flash  *Flash
	// Refresh, when positive, makes the page reload itself every N seconds.
	Refresh int
	// Data carries the page-specific payload.
	Data any
}

// render executes the named page inside the layout shell.
func (a *App) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	a.renderFlash(w, r, name, title, data, takeFlash(w, r))
}

// renderFlash renders with an explicit notification, bypassing the flash
// cookie (used when a fetch fails inside the same request).
func (a *App) renderFlash(w http.ResponseWriter, r *http.Request, name, title string, data any, flash *Flash) {
	a.renderRefresh(w, r, name, title, data, flash, 0)
}

// renderRefresh additionally arms the page's self-reload interval.
func (a *App) renderRefresh(w http.ResponseWriter, r *http.Request, name, title string, data any, flash *Flash, refresh int) {
	sess := currentSession(r)
	role, _ := roles.Parse(sess.User.Role)
	pd := pageData{
		Title:   title,
		User:    sess.User,
		Menu:    roles.Menu(role),
		Active:  r.URL.Path,
		Flash:   flash,
		Refresh: refresh,
		Data:    data,
	}
	a.execute(w, name, pd)
}

// renderBare executes a page without the sidebar shell (login, errors).
func (a *App) renderBare(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	pd := pageData{
		Title: title,
		Flash: takeFlash(w, r),
		Data:  data,
	}
	a.execute(w, name, pd)
}

// renderBareRefresh is renderBare with a self-reload interval (the Telegram
// waiting screen polls by reloading itself).
func (a *App) renderBareRefresh(w http.ResponseWriter, r *http.Request, name, title string, data any, refresh int) {
	pd := pageData{
		Title:   title,
		Flash:   takeFlash(w, r),
		Refresh: refresh,
		Data:    data,
	}
	a.execute(w, name, pd)
}

func (a *App) execute(w http.ResponseWriter, name string, pd pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, pd); err != nil {
		a.log.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}
