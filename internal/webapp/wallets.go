package webapp

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"procpanel.org/internal/gateway"
)

type walletsView struct {
	Wallets []gateway.Wallet
}

func (a *App) handleWallets(w http.ResponseWriter, r *http.Request) {
	var view walletsView
	var flash *Flash

	wallets, err := a.gw.Wallets(r.Context(), currentSession(r).Token)
	if err != nil {
		f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить кошельки")
		if redirected {
			return
		}
		flash = f
	} else {
		view.Wallets = wallets
	}

	a.renderFlash(w, r, "wallets.html", "Кошельки", view, firstFlash(flash, takeFlash(w, r)))
}

func (a *App) handleWalletCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := gateway.CreateWallet{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Type:     r.PostFormValue("type"),
		Currency: r.PostFormValue("currency"),
		Address:  strings.TrimSpace(r.PostFormValue("address")),
	}
	if req.Name == "" {
		setFlash(w, "error", "Название кошелька обязательно")
		http.Redirect(w, r, "/wallets", http.StatusSeeOther)
		return
	}

	if err := a.gw.CreateWallet(r.Context(), currentSession(r).Token, req); err != nil {
		a.failAction(w, r, err, "Не удалось создать кошелёк", "/wallets")
		return
	}
	a.completeAction(w, r, "Кошелёк создан", "/wallets")
}

func (a *App) handleWalletDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.gw.DeleteWallet(r.Context(), currentSession(r).Token, mux.Vars(r)["id"]); err != nil {
		a.failAction(w, r, err, "Не удалось удалить кошелёк", "/wallets")
		return
	}
	a.completeAction(w, r, "Кошелёк удалён", "/wallets")
}
