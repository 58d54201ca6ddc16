package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wastewise/expense-service/internal/domain"
)

// amountPattern is the shape every user-typed amount must keep: digits
// with at most one decimal point and at most two fractional digits.
var amountPattern = regexp.MustCompile(`^\d{0,10}(\.\d{0,2})?$`)

// AcceptAmountInput is the per-keystroke gate for amount fields: an edit
// that would break the amount shape is rejected outright rather than
// flagged on submit. The empty string is accepted so the field can be
// cleared while typing.
func AcceptAmountInput(s string) bool {
	return s == "" || amountPattern.MatchString(s)
}

// budgetPattern: the budget field accepts whole-number input only.
var budgetPattern = regexp.MustCompile(`^\d*$`)

// AcceptBudgetInput is the per-keystroke gate for the budget field.
func AcceptBudgetInput(s string) bool {
	return budgetPattern.MatchString(s)
}

// ManualItem is one user-typed line of the manual entry form.
type ManualItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ManualEntry carries the raw fields of the manual entry form. Every
// field is a string because that is what the form produces; Receipt
// validates and converts.
type ManualEntry struct {
	Category string       `json:"category"`
	Date     string       `json:"date"`
	Items    []ManualItem `json:"items"`
	Tax      string       `json:"tax"`
}

// FieldError names one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every invalid field of a manual entry.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid manual entry"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid manual entry: " + strings.Join(parts, "; ")
}

// Validate checks the entry against the manual-entry rules: a real
// category (not the picker placeholder), a canonical date, at least one
// item with non-blank name and price, and a non-blank tax. Amounts must
// match the strict numeric shape.
func (e *ManualEntry) Validate() error {
	var fields []FieldError

	if e.Category == "" || e.Category == domain.CategoryPlaceholder {
		fields = append(fields, FieldError{Field: "category", Message: "Please select a category."})
	} else if !domain.ValidCategory(e.Category) {
		fields = append(fields, FieldError{Field: "category", Message: "Unknown category."})
	}

	if _, err := time.Parse(domain.DateLayout, e.Date); err != nil {
		fields = append(fields, FieldError{Field: "date", Message: "Date must be in YYYY-MM-DD form."})
	}

	if len(e.Items) == 0 {
		fields = append(fields, FieldError{Field: "items", Message: "At least one item is required."})
	}
	for i, item := range e.Items {
		if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Price) == "" {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "Item name and price cannot be empty.",
			})
			continue
		}
		if !amountPattern.MatchString(item.Price) {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "Price must be a number with at most two decimal places.",
			})
		}
	}

	if strings.TrimSpace(e.Tax) == "" {
		fields = append(fields, FieldError{Field: "tax", Message: "Tax cannot be empty."})
	} else if !amountPattern.MatchString(e.Tax) {
		fields = append(fields, FieldError{Field: "tax", Message: "Tax must be a number with at most two decimal places."})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Receipt validates the entry and builds the canonical record. Manual
// entries have no server-supplied total: total is always subtotal+tax.
func (e *ManualEntry) Receipt() (domain.Receipt, error) {
	if err := e.Validate(); err != nil {
		return domain.Receipt{}, err
	}

	receipt := domain.Receipt{
		Category: e.Category,
		Date:     e.Date,
	}

	subtotal := decimal.Zero
	for _, item := range e.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			// Unreachable after Validate, but stay total anyway.
			price = decimal.Zero
		}
		receipt.Items = append(receipt.Items, domain.LineItem{
			Name:  item.Name,
			Price: price.InexactFloat64(),
		})
		subtotal = subtotal.Add(price)
	}

	tax, err := decimal.NewFromString(e.Tax)
	if err != nil {
		tax = decimal.Zero
	}

	receipt.Subtotal = subtotal.InexactFloat64()
	receipt.Tax = tax.InexactFloat64()
	receipt.Total = subtotal.Add(tax).InexactFloat64()
	return receipt, nil
}
