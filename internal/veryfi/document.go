package veryfi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is the schema-tolerant decode of a raw extraction result.
// The producer guarantees nothing: every field may be absent or of an
// unexpected type, so fields are pointers and a shape mismatch on any
// one of them leaves that field nil instead of failing the decode.
type Document struct {
	Category     *string
	CurrencyCode *string
	Date         *string
	Tax          *float64
	Total        *float64
	Subtotal     *float64
	LineItems    []DocumentLine
}

// DocumentLine is one entry of the line_items array.
type DocumentLine struct {
	Description *string
	Total       *float64
}

// ParseDocument decodes the response body of a document-processing call.
// Only a body that is not a JSON object at all is an error; individual
// malformed fields are dropped.
func ParseDocument(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &VeryfiError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	doc := &Document{
		Category:     optString(fields["category"]),
		CurrencyCode: optString(fields["currency_code"]),
		Date:         optString(fields["date"]),
		Tax:          optFloat(fields["tax"]),
		Total:        optFloat(fields["total"]),
		Subtotal:     optFloat(fields["subtotal"]),
	}

	var rawItems []json.RawMessage
	if raw, ok := fields["line_items"]; ok {
		// A non-array line_items is treated the same as an absent one.
		_ = json.Unmarshal(raw, &rawItems)
	}
	for _, rawItem := range rawItems {
		var itemFields map[string]json.RawMessage
		if err := json.Unmarshal(rawItem, &itemFields); err != nil {
			continue
		}
		doc.LineItems = append(doc.LineItems, DocumentLine{
			Description: optString(itemFields["description"]),
			Total:       optFloat(itemFields["total"]),
		})
	}

	return doc, nil
}

// optString decodes raw as a JSON string, or nil on absence or mismatch.
func optString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// optFloat decodes raw as a JSON number. Numeric strings are accepted
// too since the service is not consistent about quoting amounts.
func optFloat(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
