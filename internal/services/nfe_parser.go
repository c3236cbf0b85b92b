package services

import (
	"regexp"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

const (
	metadataSelector  = "#infos"
	accessKeySelector = ".chave"
)

// InvoiceParser turns an NFC-e consumer page into an InvoiceResult
type InvoiceParser struct {
	datePattern *regexp.Regexp
}

// NewInvoiceParser creates a new invoice parser
func NewInvoiceParser() *InvoiceParser {
	return &InvoiceParser{
		// Pattern: 15/03/2024 14:32:10
		datePattern: regexp.MustCompile(`\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}`),
	}
}

// Parse extracts the line items, emission date and access key of a page.
// Missing regions never fail the parse, they yield empty values.
func (p *InvoiceParser) Parse(page PageSnapshot) *models.InvoiceResult {
	rows := ExtractRows(page)
	items := make([]models.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, NormalizeRow(row))
	}

	return &models.InvoiceResult{
		Items: items,
		Date:  p.extractDate(page),
		Key:   p.extractKey(page),
	}
}

// extractDate returns the first timestamp found in the metadata block
func (p *InvoiceParser) extractDate(page PageSnapshot) string {
	region := page.Find(metadataSelector)
	if region.Length() == 0 {
		return ""
	}
	return p.datePattern.FindString(InnerText(region.First()))
}

func (p *InvoiceParser) extractKey(page PageSnapshot) string {
	key := page.Find(accessKeySelector)
	if key.Length() == 0 {
		return ""
	}
	return InnerText(key.First())
}
