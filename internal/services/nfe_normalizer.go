package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// Label patterns that prefix the price fragments on the page
var (
	UnitPriceLabel = regexp.MustCompile(`^Vl\. Unit\.:`)
	TotalLabel     = regexp.MustCompile(`(?m)^Vl\. Total`)
)

var (
	nonDigitPattern  = regexp.MustCompile(`\D`)
	thousandsPattern = regexp.MustCompile(`(\d)\.(\d{3})`)
	quantityPattern  = regexp.MustCompile(`\d[\d,]*`)
	unitLabelPattern = regexp.MustCompile(`^UN:`)

	localePrinter = message.NewPrinter(language.BrazilianPortuguese)
)

const maxQuantityDigits = 4

// NormalizeCode keeps only the digits of the product code
func NormalizeCode(field models.RawField) string {
	if !field.Present {
		return ""
	}
	return nonDigitPattern.ReplaceAllString(field.Text, "")
}

// NormalizeName returns the name markup untouched
func NormalizeName(field models.RawField) string {
	if !field.Present {
		return ""
	}
	return field.Text
}

// NormalizeQuantity parses the last numeric run of the quantity fragment,
// reading comma as the decimal point. Anything unparseable becomes zero.
func NormalizeQuantity(field models.RawField) string {
	value := decimal.Zero
	if field.Present {
		value = parseQuantity(field.Text)
	}
	return FormatQuantity(value)
}

func parseQuantity(text string) decimal.Decimal {
	runs := quantityPattern.FindAllString(stripThousands(text), -1)
	if len(runs) == 0 {
		return decimal.Zero
	}

	run := strings.TrimRight(runs[len(runs)-1], ",")
	value, err := decimal.NewFromString(strings.Replace(run, ",", ".", 1))
	if err != nil {
		return decimal.Zero
	}
	return value
}

// NormalizeUnit drops the "UN:" label and surrounding whitespace
func NormalizeUnit(field models.RawField) string {
	if !field.Present {
		return ""
	}
	return strings.TrimSpace(unitLabelPattern.ReplaceAllString(field.Text, ""))
}

// NormalizeMoney strips label from the fragment and parses the remaining
// pt-BR formatted amount. Anything unparseable becomes zero.
func NormalizeMoney(field models.RawField, label *regexp.Regexp) string {
	value := decimal.Zero
	if field.Present {
		value = parseMoney(field.Text, label)
	}
	return FormatMoney(value)
}

func parseMoney(text string, label *regexp.Regexp) decimal.Decimal {
	text = strings.TrimSpace(label.ReplaceAllString(text, ""))
	text = strings.ReplaceAll(text, ".", "")
	text = strings.Replace(text, ",", ".", 1)

	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// stripThousands removes "." used as a thousands separator between digit groups
func stripThousands(text string) string {
	for {
		next := thousandsPattern.ReplaceAllString(text, "$1$2")
		if next == text {
			return text
		}
		text = next
	}
}

// FormatQuantity renders a quantity in pt-BR, e.g. 1234.5 -> "1.234,5"
func FormatQuantity(value decimal.Decimal) string {
	f, _ := value.Float64()
	return localePrinter.Sprint(number.Decimal(f, number.MaxFractionDigits(maxQuantityDigits)))
}

// FormatMoney renders an amount in pt-BR with two decimals, e.g. 1050 -> "1.050,00"
func FormatMoney(value decimal.Decimal) string {
	f, _ := value.Round(2).Float64()
	return localePrinter.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// NormalizeRow maps the raw fragments of one row into a LineItem
func NormalizeRow(raw models.RawLineItem) models.LineItem {
	return models.LineItem{
		Code:         NormalizeCode(raw.Code),
		Name:         NormalizeName(raw.Name),
		Quantity:     NormalizeQuantity(raw.Quantity),
		Unit:         NormalizeUnit(raw.Unit),
		UnitaryValue: NormalizeMoney(raw.UnitaryValue, UnitPriceLabel),
		TotalValue:   NormalizeMoney(raw.TotalValue, TotalLabel),
		Category:     models.DefaultCategory,
	}
}
