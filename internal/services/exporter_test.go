package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

type fakeSheets struct {
	titles    []string
	added     []string
	headers   [][]string
	appends   map[string][][]string
	appendOps int
	err       error
}

func (f *fakeSheets) SheetTitles(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.titles, nil
}

func (f *fakeSheets) AddSheet(ctx context.Context, title string, header []string) error {
	f.titles = append(f.titles, title)
	f.added = append(f.added, title)
	f.headers = append(f.headers, header)
	return nil
}

func (f *fakeSheets) Append(ctx context.Context, title string, rows [][]string) error {
	if f.appends == nil {
		f.appends = map[string][][]string{}
	}
	f.appendOps++
	f.appends[title] = append(f.appends[title], rows...)
	return nil
}

var validCreds = SheetsCredentials{DocumentID: "doc", ClientEmail: "svc@example.iam.gserviceaccount.com", PrivateKey: "key"}

func newTestSheetsExporter(creds SheetsCredentials, backend *fakeSheets, now time.Time) (*SheetsExporter, *int) {
	calls := 0
	e := NewSheetsExporter(creds)
	e.newBackend = func(ctx context.Context, c SheetsCredentials) (SheetsBackend, error) {
		calls++
		return backend, nil
	}
	e.now = func() time.Time { return now }
	return e, &calls
}

func twoItemInvoice() *models.InvoiceResult {
	return &models.InvoiceResult{
		Items: []models.LineItem{
			{Name: "ARROZ", Quantity: "2", UnitaryValue: "24,90", TotalValue: "49,80", Category: "others"},
			{Name: "CAFÉ", Quantity: "1", UnitaryValue: "15,00", TotalValue: "15,00", Category: "others"},
		},
		Date: "15/03/2024 14:32:10",
		Key:  "3524",
	}
}

func TestSheetTitle(t *testing.T) {
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local)
	tests := []struct {
		date string
		want string
	}{
		{"15/03/2024 14:32:10", "março 2024"},
		{"01/01/2023 00:00:00", "janeiro 2023"},
		{"", "dezembro 2025"},
		{"not a date", "dezembro 2025"},
	}

	for _, tt := range tests {
		if got := SheetTitle(tt.date, now); got != tt.want {
			t.Errorf("SheetTitle(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestInvoiceRows(t *testing.T) {
	rows := InvoiceRows(twoItemInvoice())
	want := [][]string{
		{"ARROZ", "2", "24,90", "", "49,80"},
		{"CAFÉ", "1", "15,00", "", "15,00"},
		{"^^^ 15/03/2024 14:32:10 ^^^", "0", "0", "", "0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("InvoiceRows() = %v, want %v", rows, want)
	}
}

func TestSheetsExporter_CreatesTabWithHeaderOnce(t *testing.T) {
	backend := &fakeSheets{}
	e, _ := newTestSheetsExporter(validCreds, backend, time.Now())

	for i := 0; i < 2; i++ {
		if err := e.Export(context.Background(), twoItemInvoice()); err != nil {
			t.Fatalf("Export() error = %v", err)
		}
	}

	if !reflect.DeepEqual(backend.added, []string{"março 2024"}) {
		t.Fatalf("expected a single created tab, got %v", backend.added)
	}
	if !reflect.DeepEqual(backend.headers[0], SheetHeader) {
		t.Errorf("unexpected header %v", backend.headers[0])
	}
	if backend.appendOps != 2 {
		t.Errorf("expected 2 append calls, got %d", backend.appendOps)
	}
	if got := len(backend.appends["março 2024"]); got != 6 {
		t.Errorf("expected 6 appended rows, got %d", got)
	}
}

func TestSheetsExporter_SingleAppendForExistingTab(t *testing.T) {
	backend := &fakeSheets{titles: []string{"março 2024"}}
	e, _ := newTestSheetsExporter(validCreds, backend, time.Now())

	if err := e.Export(context.Background(), twoItemInvoice()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(backend.added) != 0 {
		t.Errorf("did not expect a new tab, got %v", backend.added)
	}
	if backend.appendOps != 1 {
		t.Errorf("expected exactly one append, got %d", backend.appendOps)
	}
	if got := len(backend.appends["março 2024"]); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
}

func TestSheetsExporter_MissingConfiguration(t *testing.T) {
	tests := []struct {
		name  string
		creds SheetsCredentials
		want  error
	}{
		{"no document id", SheetsCredentials{ClientEmail: "a", PrivateKey: "b"}, ErrMissingDocumentID},
		{"no email", SheetsCredentials{DocumentID: "d", PrivateKey: "b"}, ErrMissingCredentials},
		{"no key", SheetsCredentials{DocumentID: "d", ClientEmail: "a"}, ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeSheets{}
			e, calls := newTestSheetsExporter(tt.creds, backend, time.Now())

			err := e.Export(context.Background(), twoItemInvoice())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if *calls != 0 || backend.appendOps != 0 {
				t.Errorf("expected no spreadsheet calls, got connect=%d append=%d", *calls, backend.appendOps)
			}
		})
	}
}

func TestSheetsExporter_BackendFailure(t *testing.T) {
	backend := &fakeSheets{err: errors.New("401 unauthorized")}
	e, _ := newTestSheetsExporter(validCreds, backend, time.Now())

	if err := e.Export(context.Background(), twoItemInvoice()); err == nil {
		t.Fatal("expected error from backend")
	}
	if backend.appendOps != 0 {
		t.Errorf("expected no appends, got %d", backend.appendOps)
	}
}

func TestSheetRange(t *testing.T) {
	if got := sheetRange("março 2024"); got != "'março 2024'!A1" {
		t.Errorf("sheetRange() = %q", got)
	}
	if got := sheetRange("it's"); got != "'it''s'!A1" {
		t.Errorf("sheetRange() = %q", got)
	}
}
