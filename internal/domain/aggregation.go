package domain

// AggregationShape identifies which of the three result shapes was produced.
type AggregationShape string

const (
	ShapeTimeSeries AggregationShape = "TIME_SERIES"
	ShapeBreakdown  AggregationShape = "CATEGORY_BREAKDOWN"
	ShapeEmpty      AggregationShape = "EMPTY"
)

// TimeSeriesPoint is one charting point for the filtered category.
// X is the sequential index after sorting by date ascending.
type TimeSeriesPoint struct {
	X      int     `json:"x"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// CategorySlice is one slice of the per-category breakdown.
type CategorySlice struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Color    string  `json:"color"`
}

// AggregationResult is the derived (never persisted) outcome of an
// aggregation query. Exactly one of Series or Slices is populated,
// matching Shape; TotalSpending covers all matched receipts either way.
type AggregationResult struct {
	Shape         AggregationShape  `json:"shape"`
	Series        []TimeSeriesPoint `json:"series,omitempty"`
	Slices        []CategorySlice   `json:"slices,omitempty"`
	TotalSpending float64           `json:"totalSpending"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
}
