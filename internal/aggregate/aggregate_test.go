package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/expense-service/internal/domain"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func storedReceipt(category, date string, total float64) domain.StoredReceipt {
	return domain.StoredReceipt{
		Receipt: domain.Receipt{
			Category: category,
			Date:     date,
			Total:    total,
		},
	}
}

func TestAggregateRequiresCategory(t *testing.T) {
	_, err := Aggregate(nil, Filter{}, testNow)
	assert.ErrorIs(t, err, ErrCategoryRequired)
}

func TestAggregateTimeSeriesShape(t *testing.T) {
	receipts := []domain.StoredReceipt{
		storedReceipt("Grocery", "2026-08-10", 20),
		storedReceipt("Travel", "2026-08-11", 100),
		storedReceipt("Grocery", "2026-08-01", 10),
	}

	result, err := Aggregate(receipts, Filter{Category: "Grocery"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, domain.ShapeTimeSeries, result.Shape)
	require.Len(t, result.Series, 2)
	assert.Empty(t, result.Slices)

	// Sorted by date ascending, X sequential from zero.
	assert.Equal(t, 0, result.Series[0].X)
	assert.Equal(t, "2026-08-01", result.Series[0].Date)
	assert.Equal(t, 10.0, result.Series[0].Amount)
	assert.Equal(t, 1, result.Series[1].X)
	assert.Equal(t, "2026-08-10", result.Series[1].Date)

	// Total spending covers every matched receipt, not just the series.
	assert.Equal(t, 130.0, result.TotalSpending)
}

func TestAggregateBreakdownShape(t *testing.T) {
	// No receipt in the filtered category, but others in the window.
	receipts := []domain.StoredReceipt{
		storedReceipt("Travel", "2026-08-11", 100),
		storedReceipt("Utilities", "2026-08-12", 50),
	}

	result, err := Aggregate(receipts, Filter{Category: "Grocery"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, domain.ShapeBreakdown, result.Shape)
	assert.Empty(t, result.Series)
	require.Len(t, result.Slices, 2)

	// Slices sorted by category name.
	assert.Equal(t, "Travel", result.Slices[0].Category)
	assert.Equal(t, 100.0, result.Slices[0].Amount)
	assert.NotEmpty(t, result.Slices[0].Color)
	assert.Equal(t, "Utilities", result.Slices[1].Category)

	assert.Equal(t, 150.0, result.TotalSpending)
}

func TestAggregateEmptyShape(t *testing.T) {
	receipts := []domain.StoredReceipt{
		storedReceipt("Travel", "2025-01-01", 100),
	}

	result, err := Aggregate(receipts, Filter{Category: "Grocery"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, domain.ShapeEmpty, result.Shape)
	assert.Empty(t, result.Series)
	assert.Empty(t, result.Slices)
	assert.Equal(t, 0.0, result.TotalSpending)
}

func TestAggregateDefaultWindowIsTrailingMonth(t *testing.T) {
	result, err := Aggregate(nil, Filter{Category: "Grocery"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "2026-07-15", result.StartDate)
	assert.Equal(t, "2026-08-15", result.EndDate)
}

func TestAggregateWindowIsInclusive(t *testing.T) {
	receipts := []domain.StoredReceipt{
		storedReceipt("Grocery", "2026-08-01", 10),
		storedReceipt("Grocery", "2026-08-10", 20),
		storedReceipt("Grocery", "2026-07-31", 5),
		storedReceipt("Grocery", "2026-08-11", 40),
	}

	filter := Filter{Category: "Grocery", StartDate: "2026-08-01", EndDate: "2026-08-10"}
	result, err := Aggregate(receipts, filter, testNow)
	require.NoError(t, err)

	require.Len(t, result.Series, 2)
	assert.Equal(t, "2026-08-01", result.Series[0].Date)
	assert.Equal(t, "2026-08-10", result.Series[1].Date)
	assert.Equal(t, 30.0, result.TotalSpending)
}

func TestAggregateSkipsUnparseableDates(t *testing.T) {
	// A receipt whose date never normalized cannot land in the window.
	receipts := []domain.StoredReceipt{
		storedReceipt("Grocery", "Unknown", 10),
		storedReceipt("Grocery", "2026-08-10", 20),
	}

	result, err := Aggregate(receipts, Filter{Category: "Grocery"}, testNow)
	require.NoError(t, err)

	require.Len(t, result.Series, 1)
	assert.Equal(t, 20.0, result.TotalSpending)
}

func TestDisplayColorDeterministic(t *testing.T) {
	first := DisplayColor("Travel")
	assert.Equal(t, first, DisplayColor("Travel"))
	assert.NotEqual(t, first, DisplayColor("Grocery"))
	assert.Regexp(t, `^#[0-9A-F]{6}$`, first)
}
