// Package export renders backend collections into operator-downloadable
// spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"procpanel.org/internal/gateway"
)

const transactionsSheet = "Транзакции"

var transactionHeaders = []string{"ID", "Сумма", "Валюта", "Тип", "Статус", "Кошелек", "Создана", "Описание"}

// Transactions writes the listing as an XLSX workbook.
func Transactions(w io.Writer, items []gateway.Transaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(transactionsSheet)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}

	for col, header := range transactionHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(transactionsSheet, cell, header); err != nil {
			return fmt.Errorf("export: write header: %w", err)
		}
	}

	for i, tx := range items {
		row := []any{tx.ID, tx.Amount, tx.Currency, tx.Type, tx.Status, tx.WalletID, tx.CreatedAt, tx.Description}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(transactionsSheet, cell, value); err != nil {
				return fmt.Errorf("export: write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
