package model

// ErrorDetail provides field-level error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ReceiptItemResponse represents a single receipt line item
type ReceiptItemResponse struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ReceiptResponse represents a stored receipt. Monetary amounts are
// formatted to two decimal places as strings.
type ReceiptResponse struct {
	ID        string                `json:"id"`
	Category  string                `json:"category"`
	Date      string                `json:"date"`
	Currency  string                `json:"currency,omitempty"`
	Items     []ReceiptItemResponse `json:"items"`
	Subtotal  string                `json:"subtotal"`
	Tax       string                `json:"tax"`
	Total     string                `json:"total"`
	CreatedAt string                `json:"createdAt,omitempty"`
}

// ReceiptsListResponse is the fetch-all listing for one user
type ReceiptsListResponse struct {
	Data  []ReceiptResponse `json:"data"`
	Count int               `json:"count"`
}

// TimeSeriesPointResponse is one charting point
type TimeSeriesPointResponse struct {
	X      int    `json:"x"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

// CategorySliceResponse is one slice of the category breakdown
type CategorySliceResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Color    string `json:"color"`
}

// AggregationResponse represents an aggregation query result. Series is
// set for the TIME_SERIES shape, Slices for CATEGORY_BREAKDOWN, neither
// for EMPTY; TotalSpending is always present.
type AggregationResponse struct {
	Shape         string                    `json:"shape"`
	Series        []TimeSeriesPointResponse `json:"series,omitempty"`
	Slices        []CategorySliceResponse   `json:"slices,omitempty"`
	TotalSpending string                    `json:"totalSpending"`
	StartDate     string                    `json:"startDate"`
	EndDate       string                    `json:"endDate"`
}

// PreferencesResponse is the per-user settings record
type PreferencesResponse struct {
	Budget      string `json:"budget"`
	IsDarkTheme bool   `json:"isDarkTheme"`
}

// UploadStateResponse reports the scan pipeline state for the user
type UploadStateResponse struct {
	State string `json:"state"`
}

// BudgetRequest is the budget update payload
type BudgetRequest struct {
	Budget string `json:"budget"`
}

// ThemeRequest is the theme update payload
type ThemeRequest struct {
	IsDarkTheme bool `json:"isDarkTheme"`
}
