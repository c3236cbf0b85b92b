package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// ErrMissingExportFile is returned when the workbook path is empty
var ErrMissingExportFile = errors.New("EXPORT_FILE is not configured")

// WorkbookExporter appends invoices to a local .xlsx workbook with the same
// monthly tab layout as the Google Sheets exporter
type WorkbookExporter struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewWorkbookExporter creates an exporter writing to the workbook at path
func NewWorkbookExporter(path string) *WorkbookExporter {
	return &WorkbookExporter{path: path, now: time.Now}
}

// Export appends the invoice rows to its monthly tab and saves the workbook
func (e *WorkbookExporter) Export(ctx context.Context, result *models.InvoiceResult) error {
	if e.path == "" {
		return ErrMissingExportFile
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	f, fresh, err := e.open()
	if err != nil {
		return err
	}
	defer f.Close()

	title := SheetTitle(result.Date, e.now())
	if err := ensureWorksheet(f, title, fresh); err != nil {
		return err
	}

	existing, err := f.GetRows(title)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", title, err)
	}

	next := len(existing) + 1
	for _, row := range InvoiceRows(result) {
		if err := writeRow(f, title, next, row); err != nil {
			return err
		}
		next++
	}

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// open loads the workbook, or starts a new one when the file does not exist yet
func (e *WorkbookExporter) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(e.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("open workbook: %w", err)
}

func ensureWorksheet(f *excelize.File, title string, fresh bool) error {
	idx, err := f.GetSheetIndex(title)
	if err != nil {
		return fmt.Errorf("look up sheet %q: %w", title, err)
	}
	if idx != -1 {
		return nil
	}

	if fresh {
		// A new workbook comes with one empty default sheet; reuse it.
		if err := f.SetSheetName(f.GetSheetName(0), title); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := f.NewSheet(title); err != nil {
		return fmt.Errorf("create sheet %q: %w", title, err)
	}

	return writeRow(f, title, 1, SheetHeader)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
