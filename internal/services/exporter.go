package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// Export configuration errors
var (
	ErrMissingDocumentID  = errors.New("GOOGLE_DOCUMENT_ID is not configured")
	ErrMissingCredentials = errors.New("GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY must both be configured")
)

// Exporter appends a parsed invoice to the monthly spreadsheet
type Exporter interface {
	Export(ctx context.Context, result *models.InvoiceResult) error
}

// SheetHeader is written once, when a monthly tab is created
var SheetHeader = []string{"Item", "Qtd.", "Valor unt.", "Categoria", "Total"}

// invoiceDateLayout matches the timestamp printed on the page
const invoiceDateLayout = "02/01/2006 15:04:05"

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// SheetTitle returns the monthly tab name for an invoice date, e.g. "março 2024".
// An empty or unparseable date falls back to now.
func SheetTitle(date string, now time.Time) string {
	t := now
	if date != "" {
		if parsed, err := time.ParseInLocation(invoiceDateLayout, date, time.Local); err == nil {
			t = parsed
		}
	}
	return fmt.Sprintf("%s %04d", monthNames[t.Month()-1], t.Year())
}

// InvoiceRows lays out one invoice as sheet rows: one per item plus a trailing marker row
func InvoiceRows(result *models.InvoiceResult) [][]string {
	rows := make([][]string, 0, len(result.Items)+1)
	for _, item := range result.Items {
		rows = append(rows, []string{item.Name, item.Quantity, item.UnitaryValue, "", item.TotalValue})
	}

	zero := FormatQuantity(decimal.Zero)
	rows = append(rows, []string{fmt.Sprintf("^^^ %s ^^^", result.Date), zero, zero, "", zero})
	return rows
}
