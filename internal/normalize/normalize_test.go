package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/expense-service/internal/veryfi"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestNormalizeEmptyDocument(t *testing.T) {
	receipt := Normalize(&veryfi.Document{})

	assert.Equal(t, DefaultCategory, receipt.Category)
	assert.Equal(t, DefaultCurrency, receipt.Currency)
	assert.Equal(t, DefaultDate, receipt.Date)
	assert.Empty(t, receipt.Items)
	assert.Equal(t, 0.0, receipt.Subtotal)
	assert.Equal(t, 0.0, receipt.Tax)
	assert.Equal(t, 0.0, receipt.Total)
}

func TestNormalizeNilDocument(t *testing.T) {
	receipt := Normalize(nil)
	assert.Equal(t, DefaultCategory, receipt.Category)
}

func TestNormalizeServiceTotalWins(t *testing.T) {
	// The supplied total is kept even when it does not reconcile with
	// subtotal plus tax.
	doc := &veryfi.Document{
		Tax:   numPtr(1.0),
		Total: numPtr(99.0),
		LineItems: []veryfi.DocumentLine{
			{Description: strPtr("Milk"), Total: numPtr(4.0)},
			{Description: strPtr("Eggs"), Total: numPtr(8.0)},
		},
	}

	receipt := Normalize(doc)

	assert.Equal(t, 12.0, receipt.Subtotal)
	assert.Equal(t, 1.0, receipt.Tax)
	assert.Equal(t, 99.0, receipt.Total)
}

func TestNormalizeTotalFallsBackToSubtotalPlusTax(t *testing.T) {
	doc := &veryfi.Document{
		Tax: numPtr(1.0),
		LineItems: []veryfi.DocumentLine{
			{Description: strPtr("Milk"), Total: numPtr(4.0)},
			{Description: strPtr("Eggs"), Total: numPtr(8.0)},
		},
	}

	receipt := Normalize(doc)

	assert.Equal(t, 12.0, receipt.Subtotal)
	assert.Equal(t, 13.0, receipt.Total)
}

func TestNormalizeSubtotalAlwaysRecomputed(t *testing.T) {
	// A service subtotal is ignored; line items are the source of truth.
	doc := &veryfi.Document{
		Subtotal: numPtr(500.0),
		LineItems: []veryfi.DocumentLine{
			{Description: strPtr("Coffee"), Total: numPtr(2.75)},
		},
	}

	receipt := Normalize(doc)
	assert.Equal(t, 2.75, receipt.Subtotal)
}

func TestNormalizeItemDefaults(t *testing.T) {
	doc := &veryfi.Document{
		LineItems: []veryfi.DocumentLine{
			{},
			{Description: strPtr("Juice"), Total: numPtr(-3.0)},
		},
	}

	receipt := Normalize(doc)

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, DefaultItemName, receipt.Items[0].Name)
	assert.Equal(t, 0.0, receipt.Items[0].Price)

	// Non-positive prices resolve to zero.
	assert.Equal(t, "Juice", receipt.Items[1].Name)
	assert.Equal(t, 0.0, receipt.Items[1].Price)
}

func TestNormalizeDecimalSums(t *testing.T) {
	doc := &veryfi.Document{
		LineItems: []veryfi.DocumentLine{
			{Description: strPtr("A"), Total: numPtr(0.1)},
			{Description: strPtr("B"), Total: numPtr(0.2)},
		},
	}

	receipt := Normalize(doc)
	assert.Equal(t, 0.3, receipt.Subtotal)
	assert.Equal(t, 0.3, receipt.Total)
}

func TestReformatDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date time form", "2026-08-15 13:22:01", "2026-08-15"},
		{"already canonical", "2026-08-15", "2026-08-15"},
		{"garbage passes through", "August 15th", "August 15th"},
		{"empty passes through", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReformatDate(tt.in))
		})
	}
}

func TestNormalizeDateHandling(t *testing.T) {
	doc := &veryfi.Document{Date: strPtr("2026-08-15 13:22:01")}
	receipt := Normalize(doc)
	assert.Equal(t, "2026-08-15", receipt.Date)

	doc = &veryfi.Document{Date: strPtr("not a date")}
	receipt = Normalize(doc)
	assert.Equal(t, "not a date", receipt.Date)
}
