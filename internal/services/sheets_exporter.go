package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// SheetsCredentials identifies the target spreadsheet and the service account writing to it
type SheetsCredentials struct {
	DocumentID  string
	ClientEmail string
	PrivateKey  string
}

// Validate reports the first missing setting
func (c SheetsCredentials) Validate() error {
	if c.DocumentID == "" {
		return ErrMissingDocumentID
	}
	if c.ClientEmail == "" || c.PrivateKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// SheetsBackend is the subset of the spreadsheet API the exporter needs
type SheetsBackend interface {
	SheetTitles(ctx context.Context) ([]string, error)
	AddSheet(ctx context.Context, title string, header []string) error
	Append(ctx context.Context, title string, rows [][]string) error
}

// SheetsExporter appends invoices to a Google Sheets document
type SheetsExporter struct {
	creds      SheetsCredentials
	newBackend func(ctx context.Context, creds SheetsCredentials) (SheetsBackend, error)
	now        func() time.Time
}

// NewSheetsExporter creates an exporter talking to the Google Sheets API
func NewSheetsExporter(creds SheetsCredentials) *SheetsExporter {
	return &SheetsExporter{
		creds:      creds,
		newBackend: newGoogleSheetsBackend,
		now:        time.Now,
	}
}

// Export resolves the monthly tab, creating it with a header when needed,
// and appends the invoice rows in a single call
func (e *SheetsExporter) Export(ctx context.Context, result *models.InvoiceResult) error {
	if err := e.creds.Validate(); err != nil {
		return err
	}

	backend, err := e.newBackend(ctx, e.creds)
	if err != nil {
		return fmt.Errorf("failed to connect to spreadsheet: %w", err)
	}

	title := SheetTitle(result.Date, e.now())

	titles, err := backend.SheetTitles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", err)
	}

	if !containsTitle(titles, title) {
		if err := backend.AddSheet(ctx, title, SheetHeader); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", title, err)
		}
	}

	if err := backend.Append(ctx, title, InvoiceRows(result)); err != nil {
		return fmt.Errorf("failed to append rows to %q: %w", title, err)
	}

	return nil
}

func containsTitle(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}

// googleSheetsBackend implements SheetsBackend with the Sheets v4 API
type googleSheetsBackend struct {
	srv        *sheets.Service
	documentID string
}

func newGoogleSheetsBackend(ctx context.Context, creds SheetsCredentials) (SheetsBackend, error) {
	conf := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &googleSheetsBackend{srv: srv, documentID: creds.DocumentID}, nil
}

func (b *googleSheetsBackend) SheetTitles(ctx context.Context) ([]string, error) {
	doc, err := b.srv.Spreadsheets.Get(b.documentID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(doc.Sheets))
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (b *googleSheetsBackend) AddSheet(ctx context.Context, title string, header []string) error {
	_, err := b.srv.Spreadsheets.BatchUpdate(b.documentID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	_, err = b.srv.Spreadsheets.Values.Update(b.documentID, sheetRange(title), &sheets.ValueRange{
		Values: toCells([][]string{header}),
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (b *googleSheetsBackend) Append(ctx context.Context, title string, rows [][]string) error {
	_, err := b.srv.Spreadsheets.Values.Append(b.documentID, sheetRange(title), &sheets.ValueRange{
		Values: toCells(rows),
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// sheetRange quotes a tab title for A1 notation
func sheetRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!A1"
}

func toCells(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
