package normalize

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wastewise/expense-service/internal/domain"
	"github.com/wastewise/expense-service/internal/veryfi"
)

// Defaults absorbed into the canonical record when extraction fields are
// missing or malformed.
const (
	DefaultCategory = "Unknown"
	DefaultCurrency = "Unknown"
	DefaultDate     = "Unknown"
	DefaultItemName = "No description"
)

// extractionDateLayout is the date-time form the extraction service emits.
const extractionDateLayout = "2006-01-02 15:04:05"

// Normalize converts a raw extraction result into the canonical receipt.
// It is a total function: every absent or malformed field resolves to its
// default, and it never fails.
//
// The supplied total always wins over subtotal+tax, even when the three
// do not reconcile; no recomputation or warning. The subtotal, on the
// other hand, is always recomputed from the line items - a service
// subtotal is ignored.
func Normalize(doc *veryfi.Document) domain.Receipt {
	if doc == nil {
		doc = &veryfi.Document{}
	}

	receipt := domain.Receipt{
		Category: DefaultCategory,
		Currency: DefaultCurrency,
		Date:     DefaultDate,
	}
	if doc.Category != nil {
		receipt.Category = *doc.Category
	}
	if doc.CurrencyCode != nil {
		receipt.Currency = *doc.CurrencyCode
	}
	if doc.Date != nil {
		receipt.Date = *doc.Date
	}
	receipt.Date = ReformatDate(receipt.Date)

	subtotal := decimal.Zero
	for _, line := range doc.LineItems {
		item := domain.LineItem{Name: DefaultItemName}
		if line.Description != nil {
			item.Name = *line.Description
		}
		if line.Total != nil && *line.Total > 0 {
			item.Price = *line.Total
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price))
		receipt.Items = append(receipt.Items, item)
	}
	receipt.Subtotal = subtotal.InexactFloat64()

	tax := decimal.Zero
	if doc.Tax != nil {
		tax = decimal.NewFromFloat(*doc.Tax)
	}
	receipt.Tax = tax.InexactFloat64()

	if doc.Total != nil {
		receipt.Total = *doc.Total
	} else {
		receipt.Total = subtotal.Add(tax).InexactFloat64()
	}

	return receipt
}

// ReformatDate converts an extraction date-time ("2006-01-02 15:04:05")
// to the canonical YYYY-MM-DD form. Anything that does not match the
// expected pattern - including an already-canonical date, which lacks
// the time component - passes through unchanged. Lossy by intent.
func ReformatDate(s string) string {
	t, err := time.Parse(extractionDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(domain.DateLayout)
}
