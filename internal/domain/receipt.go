package domain

import "time"

// LineItem represents a single purchased item on a receipt
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Receipt represents a scanned or manually entered receipt.
// Date is kept as a string: extraction dates that fail to parse are
// passed through unchanged, so the field cannot be a real date type.
type Receipt struct {
	Category string     `json:"category"`
	Date     string     `json:"date"`
	Items    []LineItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
	Currency string     `json:"currency,omitempty"`
}

// StoredReceipt is a receipt as read back from the store, together with
// its server-assigned identifier and creation time.
type StoredReceipt struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Receipt   Receipt   `json:"receipt"`
	CreatedAt time.Time `json:"created_at"`
}

// DateLayout is the canonical receipt date form.
const DateLayout = "2006-01-02"

// Categories is the fixed list offered for manual entry. The
// "Select a Category" placeholder is deliberately not part of it.
var Categories = []string{
	"Advertising & Marketing",
	"Automotive",
	"Bank Charges & Fees",
	"Legal & Professional Services",
	"Insurance",
	"Meals & Entertainment",
	"Office Supplies & Software",
	"Taxes & Licenses",
	"Travel",
	"Rent & Lease",
	"Repairs & Maintenance",
	"Payroll",
	"Utilities",
	"Job Supplies",
	"Grocery",
}

// CategoryPlaceholder is the unselected state of the category picker.
const CategoryPlaceholder = "Select a Category"

// ValidCategory reports whether name is one of the fixed categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
