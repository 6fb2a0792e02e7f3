package webapp

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"procpanel.org/internal/export"
	"procpanel.org/internal/gateway"
)

// transactionsView feeds the transactions listing template.
type transactionsView struct {
	Page    gateway.TransactionPage
	Filter  gateway.TransactionFilter
	Wallets []gateway.Wallet
	// Pages is the drawn pagination range.
	Pages    []int
	PrevPage int
	NextPage int
}

func transactionFilterFromQuery(r *http.Request) gateway.TransactionFilter {
	q := r.URL.Query()
	f := gateway.TransactionFilter{
		Page:   1,
		Limit:  20,
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= 100 {
		f.Limit = limit
	}
	return f
}

func (a *App) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := currentSession(r).Token
	filter := transactionFilterFromQuery(r)

	view := transactionsView{Filter: filter}
	var flash *Flash

	page, err := a.gw.Transactions(ctx, token, filter)
	if err != nil {
		f, redirected := a.fetchFailed(w, r, err, "Не удалось загрузить транзакции")
		if redirected {
			return
		}
		flash = f
	} else {
		view.Page = page
		view.Pages = paginate(page.Total, filter.Limit)
		view.PrevPage = filter.Page - 1
		view.NextPage = filter.Page + 1
		// wallet list for the create form; the listing works without it
		if wallets, err := a.gw.Wallets(ctx, token); err == nil {
			view.Wallets = wallets
		}
	}

	a.renderFlash(w, r, "transactions.html", "Транзакции", view, firstFlash(flash, takeFlash(w, r)))
}

func (a *App) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("amount")), 64)
	if err != nil || amount <= 0 {
		setFlash(w, "error", "Сумма должна быть положительным числом")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}
	req := gateway.CreateTransaction{
		Amount:      amount,
		Currency:    r.PostFormValue("currency"),
		Type:        r.PostFormValue("type"),
		WalletID:    r.PostFormValue("wallet_id"),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}

	token := currentSession(r).Token
	if err := a.gw.CreateTransaction(r.Context(), token, req); err != nil {
		a.failAction(w, r, err, "Не удалось создать транзакцию", "/transactions")
		return
	}
	a.completeAction(w, r, "Транзакция создана", "/transactions")
}

// handleTransactionsExport streams the current filter's listing as an xlsx
// workbook. The export pulls every page, not just the visible one.
func (a *App) handleTransactionsExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := currentSession(r).Token
	filter := transactionFilterFromQuery(r)
	filter.Page = 1
	filter.Limit = 100

	var items []gateway.Transaction
	for {
		page, err := a.gw.Transactions(ctx, token, filter)
		if err != nil {
			if _, redirected := a.fetchFailed(w, r, err, "Не удалось выгрузить транзакции"); !redirected {
				http.Redirect(w, r, "/transactions", http.StatusSeeOther)
			}
			return
		}
		items = append(items, page.Items...)
		if len(page.Items) < filter.Limit || len(items) >= page.Total {
			break
		}
		filter.Page++
	}

	name := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.Transactions(w, items); err != nil {
		a.log.Error("xlsx export failed", zap.Error(err))
	}
}

func (a *App) handleTransactionApprove(w http.ResponseWriter, r *http.Request) {
	token := currentSession(r).Token
	if err := a.gw.ApproveTransaction(r.Context(), token, mux.Vars(r)["id"]); err != nil {
		a.failAction(w, r, err, "Не удалось подтвердить транзакцию", "/transactions")
		return
	}
	a.completeAction(w, r, "Транзакция подтверждена", "/transactions")
}

func (a *App) handleTransactionReject(w http.ResponseWriter, r *http.Request) {
	reason := strings.TrimSpace(r.PostFormValue("reason"))
	if reason == "" {
		reason = "Отклонено оператором"
	}
	token := currentSession(r).Token
	if err := a.gw.RejectTransaction(r.Context(), token, mux.Vars(r)["id"], reason); err != nil {
		a.failAction(w, r, err, "Не удалось отклонить транзакцию", "/transactions")
		return
	}
	a.completeAction(w, r, "Транзакция отклонена", "/transactions")
}

func (a *App) handleTransactionCancel(w http.ResponseWriter, r *http.Request) {
	token := currentSession(r).Token
	if err := a.gw.CancelTransaction(r.Context(), token, mux.Vars(r)["id"]); err != nil {
		a.failAction(w, r, err, "Не удалось отменить транзакцию", "/transactions")
		return
	}
	a.completeAction(w, r, "Транзакция отменена", "/transactions")
}

// paginate draws 1..N page numbers, capped so the bar stays usable.
func paginate(total, limit int) []int {
	if limit <= 0 {
		return nil
	}
	n := (total + limit - 1) / limit
	if n > 20 {
		n = 20
	}
	pages := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, i)
	}
	return pages
}
