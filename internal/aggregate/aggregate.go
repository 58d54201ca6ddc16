package aggregate

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wastewise/expense-service/internal/domain"
)

// ErrCategoryRequired is returned before any data is read when the
// filter carries no category; a category is mandatory for filtering.
var ErrCategoryRequired = errors.New("category is required")

// Filter selects which receipts participate in an aggregation. Dates are
// YYYY-MM-DD strings; when both are empty the window defaults to the
// trailing month anchored on the call time.
type Filter struct {
	Category  string
	StartDate string
	EndDate   string
}

// Aggregate computes either a time series for the filtered category or a
// per-category breakdown over the date window, with the time series
// taking priority whenever it is non-empty. now anchors the default
// window and is injected for testability.
func Aggregate(receipts []domain.StoredReceipt, filter Filter, now time.Time) (*domain.AggregationResult, error) {
	if filter.Category == "" {
		return nil, ErrCategoryRequired
	}

	startDate, endDate := filter.StartDate, filter.EndDate
	if startDate == "" && endDate == "" {
		endDate = now.Format(domain.DateLayout)
		startDate = now.AddDate(0, -1, 0).Format(domain.DateLayout)
	}

	type seriesPoint struct {
		date   string
		amount float64
	}
	var points []seriesPoint
	categoryMap := make(map[string]float64)
	total := decimal.Zero

	for _, stored := range receipts {
		r := stored.Receipt
		// Lexicographic comparison is safe because the canonical date
		// form is fixed-width and zero-padded. Inclusive on both ends.
		if r.Date < startDate || r.Date > endDate {
			continue
		}
		categoryMap[r.Category] += r.Total
		if r.Category == filter.Category {
			points = append(points, seriesPoint{date: r.Date, amount: r.Total})
		}
		total = total.Add(decimal.NewFromFloat(r.Total))
	}

	result := &domain.AggregationResult{
		TotalSpending: total.InexactFloat64(),
		StartDate:     startDate,
		EndDate:       endDate,
	}

	// Shape priority: a non-empty time series wins over the breakdown
	// even when the breakdown has data; then breakdown; then empty.
	switch {
	case len(points) > 0:
		sort.SliceStable(points, func(i, j int) bool { return points[i].date < points[j].date })
		result.Shape = domain.ShapeTimeSeries
		result.Series = make([]domain.TimeSeriesPoint, len(points))
		for i, p := range points {
			result.Series[i] = domain.TimeSeriesPoint{X: i, Date: p.date, Amount: p.amount}
		}
	case len(categoryMap) > 0:
		result.Shape = domain.ShapeBreakdown
		names := make([]string, 0, len(categoryMap))
		for name := range categoryMap {
			names = append(names, name)
		}
		sort.Strings(names)
		result.Slices = make([]domain.CategorySlice, len(names))
		for i, name := range names {
			result.Slices[i] = domain.CategorySlice{
				Category: name,
				Amount:   categoryMap[name],
				Color:    DisplayColor(name),
			}
		}
	default:
		result.Shape = domain.ShapeEmpty
	}

	return result, nil
}
