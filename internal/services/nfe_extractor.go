package services

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// Selectors of the NFC-e consumer page layout
const (
	itemRowSelector      = "#conteudo table tbody tr"
	cellSelector         = "td, th"
	codeSelector         = ".RCod"
	nameSelector         = ".txtTit2"
	quantitySelector     = ".Rqtd"
	unitSelector         = ".RUN"
	unitaryValueSelector = ".RvlUnit"
)

// ExtractRows returns the raw fragments of every item row in document order.
// Fragments whose element is missing are marked as not present.
func ExtractRows(page PageSnapshot) []models.RawLineItem {
	rows := page.Find(itemRowSelector)
	out := make([]models.RawLineItem, 0, rows.Length())

	rows.Each(func(_ int, row *goquery.Selection) {
		out = append(out, extractRow(row))
	})

	return out
}

func extractRow(row *goquery.Selection) models.RawLineItem {
	cells := row.ChildrenFiltered(cellSelector)
	first := cells.Eq(0)

	return models.RawLineItem{
		Code:         textField(first.Find(codeSelector)),
		Name:         markupField(first.Find(nameSelector)),
		Quantity:     textField(first.Find(quantitySelector)),
		Unit:         textField(first.Find(unitSelector)),
		UnitaryValue: textField(first.Find(unitaryValueSelector)),
		TotalValue:   textField(cells.Eq(1)),
	}
}

func textField(sel *goquery.Selection) models.RawField {
	if sel.Length() == 0 {
		return models.RawField{}
	}
	return models.RawField{Text: InnerText(sel.First()), Present: true}
}

func markupField(sel *goquery.Selection) models.RawField {
	if sel.Length() == 0 {
		return models.RawField{}
	}
	return models.RawField{Text: InnerHTML(sel.First()), Present: true}
}
