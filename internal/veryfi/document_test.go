package veryfi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentFullResponse(t *testing.T) {
	body := []byte(`{
		"category": "Groceries",
		"currency_code": "USD",
		"date": "2026-08-15 13:22:01",
		"tax": 1.04,
		"total": 13.04,
		"subtotal": 12.00,
		"line_items": [
			{"description": "Milk", "total": 3.5},
			{"description": "Eggs", "total": 8.5}
		]
	}`)

	doc, err := ParseDocument(body)
	require.NoError(t, err)

	require.NotNil(t, doc.Category)
	assert.Equal(t, "Groceries", *doc.Category)
	require.NotNil(t, doc.Date)
	assert.Equal(t, "2026-08-15 13:22:01", *doc.Date)
	require.NotNil(t, doc.Total)
	assert.Equal(t, 13.04, *doc.Total)
	require.Len(t, doc.LineItems, 2)
	assert.Equal(t, "Milk", *doc.LineItems[0].Description)
	assert.Equal(t, 3.5, *doc.LineItems[0].Total)
}

func TestParseDocumentEmptyObject(t *testing.T) {
	doc, err := ParseDocument([]byte(`{}`))
	require.NoError(t, err)

	assert.Nil(t, doc.Category)
	assert.Nil(t, doc.CurrencyCode)
	assert.Nil(t, doc.Date)
	assert.Nil(t, doc.Tax)
	assert.Nil(t, doc.Total)
	assert.Nil(t, doc.Subtotal)
	assert.Empty(t, doc.LineItems)
}

func TestParseDocumentDropsMismatchedFields(t *testing.T) {
	// Wrong types on individual fields do not fail the decode.
	body := []byte(`{
		"category": 42,
		"currency_code": "EUR",
		"tax": "not a number",
		"total": "19.99",
		"line_items": [
			{"description": null, "total": "7"},
			"garbage",
			{"description": "Coffee", "total": {"nested": true}}
		]
	}`)

	doc, err := ParseDocument(body)
	require.NoError(t, err)

	assert.Nil(t, doc.Category)
	require.NotNil(t, doc.CurrencyCode)
	assert.Equal(t, "EUR", *doc.CurrencyCode)
	assert.Nil(t, doc.Tax)

	// Numeric strings are accepted for amounts.
	require.NotNil(t, doc.Total)
	assert.Equal(t, 19.99, *doc.Total)

	require.Len(t, doc.LineItems, 2)
	assert.Nil(t, doc.LineItems[0].Description)
	assert.Equal(t, 7.0, *doc.LineItems[0].Total)
	assert.Equal(t, "Coffee", *doc.LineItems[1].Description)
	assert.Nil(t, doc.LineItems[1].Total)
}

func TestParseDocumentNonArrayLineItems(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"line_items": "none"}`))
	require.NoError(t, err)
	assert.Empty(t, doc.LineItems)
}

func TestParseDocumentNotAnObject(t *testing.T) {
	_, err := ParseDocument([]byte(`[1, 2, 3]`))
	require.Error(t, err)

	var veryfiErr *VeryfiError
	require.ErrorAs(t, err, &veryfiErr)
	assert.Equal(t, "parse_response_json", veryfiErr.Op)
}
