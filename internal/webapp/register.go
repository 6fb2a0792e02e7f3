package webapp

import (
	"net/http"
	"strings"

	"procpanel.org/internal/gateway"
)

type registerView struct {
	FieldError string
	Form       gateway.RegisterRequest
}

func (a *App) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	a.renderBare(w, r, "register.html", "Регистрация", registerView{})
}

func (a *App) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := gateway.RegisterRequest{
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
		FirstName: strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:  strings.TrimSpace(r.PostFormValue("last_name")),
	}

	if msg := validateRegister(form, r.PostFormValue("password_confirm")); msg != "" {
		a.renderBare(w, r, "register.html", "Регистрация", registerView{FieldError: msg, Form: form})
		return
	}

	if err := a.gw.Register(r.Context(), form); err != nil {
		if gateway.IsBusinessRejection(err) {
			a.renderBare(w, r, "register.html", "Регистрация",
				registerView{FieldError: gateway.UserMessage(err), Form: form})
			return
		}
		a.renderFlash(w, r, "register.html", "Регистрация", registerView{Form: form},
			&Flash{Kind: "error", Text: "Сервис временно недоступен"})
		return
	}

	setFlash(w, "success", "Регистрация выполнена, войдите по выданному токену")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func validateRegister(form gateway.RegisterRequest, confirm string) string {
	switch {
	case form.Email == "" || !strings.Contains(form.Email, "@"):
		return "Укажите корректный email"
	case len(form.Password) < 8:
		return "Пароль должен содержать минимум 8 символов"
	case form.Password != confirm:
		return "Пароли не совпадают"
	case form.FirstName == "":
		return "Укажите имя"
	default:
		return ""
	}
}
