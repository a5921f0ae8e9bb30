package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/ingest"
)

var exportHeader = []string{"Description", "Amount", "Date", "Account"}

// Export devolve as vendas no mesmo layout aceito pelo upload, então o
// arquivo pode ser reimportado (as duplicadas são puladas).
func (h *SaleHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "format must be csv or xlsx")
		return
	}

	rows, err := h.exportRows(r)
	if err != nil {
		storeError(w, h.Logger, err, "sales")
		return
	}

	name := fmt.Sprintf("sales-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))

	if format == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := writeXLSX(w, rows); err != nil {
			h.Logger.Error("xlsx export failed", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	cw := csv.NewWriter(w)
	cw.Write(exportHeader)
	for _, row := range rows {
		cw.Write([]string{row.description, row.sale.Amount.StringFixed(2), row.date(), row.account})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Logger.Error("csv export failed", zap.Error(err))
	}
}

type exportRow struct {
	sale        entity.Sale
	description string
	account     string
}

func (e exportRow) date() string {
	return e.sale.Date.Format("02-01-2006")
}

func (h *SaleHandler) exportRows(r *http.Request) ([]exportRow, error) {
	sales, err := h.Sales.List(r.Context())
	if err != nil {
		return nil, err
	}
	clients, err := h.Clients.List(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.CompanyName
	}

	rows := make([]exportRow, 0, len(sales))
	for _, s := range sales {
		row := exportRow{sale: s, account: ingest.AccountPrefix + names[s.ClientID]}
		if s.Description != nil {
			row.description = *s.Description
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeXLSX(w http.ResponseWriter, rows []exportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.description, row.sale.Amount.InexactFloat64(), row.date(), row.account}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
