package models

// DefaultCategory is assigned to every parsed line item
const DefaultCategory = "others"

// LineItem represents one product row of an NFE consumer page.
// Every field is always populated; missing source data maps to "" or a zero value.
type LineItem struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	UnitaryValue string `json:"unitary_value"`
	TotalValue   string `json:"total_value"`
	Category     string `json:"category"`
}

// InvoiceResult is the parsed content of a single NFE page
type InvoiceResult struct {
	Items []LineItem `json:"items"`
	Date  string     `json:"date"`
	Key   string     `json:"key"`
}

// ParseNFERequest is the request body for POST /nfes
type ParseNFERequest struct {
	URL string `json:"url"`
}

// RawField is a text fragment lifted from the page before normalization.
// Present is false when the selector matched nothing.
type RawField struct {
	Text    string
	Present bool
}

// RawLineItem holds the untouched fragments of one invoice row
type RawLineItem struct {
	Code         RawField
	Name         RawField
	Quantity     RawField
	Unit         RawField
	UnitaryValue RawField
	TotalValue   RawField
}
