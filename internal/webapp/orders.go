package webapp

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"procpanel.org/internal/gateway"
)

// ordersView feeds the trader order desk. The page refreshes itself every 30
// seconds so the listing tracks the backend queue.
type ordersView struct {
	Orders []gateway.Order
	Stats  gateway.OrderStats
}

func (a *App) handleOrders(w http.ResponseWriter, r *http.Request) {
	var view ordersView
	var flash *Flash

	resp, err := a.gw.Orders(r.Context(), currentSession(r).Token)
	if err != nil {
		f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить заказы")
		if redirected {
			return
		}
		flash = f
	} else {
		view.Orders = resp.Orders
		view.Stats = resp.Stats
	}

	a.renderRefresh(w, r, "orders.html", "Заказы", view, firstFlash(flash, takeFlash(w, r)), 30)
}

func (a *App) handleOrderAccept(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad order id", http.StatusBadRequest)
		return
	}
	if err := a.gw.AcceptOrder(r.Context(), currentSession(r).Token, id); err != nil {
		a.failAction(w, r, err, "Не удалось принять заказ", "/orders")
		return
	}
	a.completeAction(w, r, "Заказ принят в работу", "/orders")
}

func (a *App) handleOrderConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad order id", http.StatusBadRequest)
		return
	}
	if err := a.gw.ConfirmOrderPayment(r.Context(), currentSession(r).Token, id); err != nil {
		a.failAction(w, r, err, "Не удалось подтвердить оплату", "/orders")
		return
	}
	a.completeAction(w, r, "Оплата подтверждена", "/orders")
}
