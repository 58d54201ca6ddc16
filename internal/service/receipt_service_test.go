package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/aggregate"
	"github.com/wastewise/expense-service/internal/domain"
	"github.com/wastewise/expense-service/internal/normalize"
	"github.com/wastewise/expense-service/internal/repository"
	"github.com/wastewise/expense-service/internal/veryfi"
)

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts map[string][]domain.StoredReceipt
	nextID   int
	failWith error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[string][]domain.StoredReceipt)}
}

func (f *fakeReceiptRepo) CreateReceipt(ctx context.Context, userID string, receipt domain.Receipt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.nextID++
	id := string(rune('a' + f.nextID))
	f.receipts[userID] = append(f.receipts[userID], domain.StoredReceipt{
		ID: id, UserID: userID, Receipt: receipt,
	})
	return id, nil
}

func (f *fakeReceiptRepo) ListReceipts(ctx context.Context, userID string) ([]domain.StoredReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.receipts[userID], nil
}

type fakePrefsRepo struct {
	prefs map[string]domain.UserPreferences
}

func newFakePrefsRepo() *fakePrefsRepo {
	return &fakePrefsRepo{prefs: make(map[string]domain.UserPreferences)}
}

func (f *fakePrefsRepo) SaveBudget(ctx context.Context, userID, budget string) error {
	p := f.prefs[userID]
	p.Budget = budget
	f.prefs[userID] = p
	return nil
}

func (f *fakePrefsRepo) SaveTheme(ctx context.Context, userID string, isDarkTheme bool) error {
	p := f.prefs[userID]
	p.IsDarkTheme = isDarkTheme
	f.prefs[userID] = p
	return nil
}

func (f *fakePrefsRepo) LoadPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	return domain.DefaultPreferences(), nil
}

type extractorFunc func(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error)

func (f extractorFunc) ProcessDocument(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error) {
	return f(ctx, imageData, filename)
}

func fixedDocument() *veryfi.Document {
	category := "Grocery"
	date := "2026-08-15 10:00:00"
	total := 6.21
	return &veryfi.Document{
		Category: &category,
		Date:     &date,
		Total:    &total,
	}
}

func newTestService(repo *fakeReceiptRepo, extractor DocumentExtractor) *ReceiptServiceImpl {
	svc := NewReceiptService(repo, newFakePrefsRepo(), extractor, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestScanReceiptPipeline(t *testing.T) {
	repo := newFakeReceiptRepo()
	extractor := extractorFunc(func(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error) {
		assert.Equal(t, []byte("image-bytes"), imageData)
		assert.Regexp(t, `^receipt_\d+\.jpg$`, filename)
		return fixedDocument(), nil
	})
	svc := newTestService(repo, extractor)

	stored, err := svc.ScanReceipt(context.Background(), "user-1", []byte("image-bytes"))
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "Grocery", stored.Receipt.Category)
	assert.Equal(t, "2026-08-15", stored.Receipt.Date)
	assert.Equal(t, 6.21, stored.Receipt.Total)

	receipts, err := svc.ListReceipts(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, receipts, 1)

	assert.Equal(t, StateSucceeded, svc.UploadState("user-1"))
}

func TestScanReceiptRequiresUser(t *testing.T) {
	svc := newTestService(newFakeReceiptRepo(), extractorFunc(func(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error) {
		t.Fatal("extractor must not be called")
		return nil, nil
	}))

	_, err := svc.ScanReceipt(context.Background(), "", []byte("img"))
	assert.ErrorIs(t, err, repository.ErrNotAuthenticated)
}

func TestScanReceiptExtractionFailure(t *testing.T) {
	wantErr := &veryfi.VeryfiError{Op: "check_api_response", Err: errors.New("boom")}
	svc := newTestService(newFakeReceiptRepo(), extractorFunc(func(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error) {
		return nil, wantErr
	}))

	_, err := svc.ScanReceipt(context.Background(), "user-1", []byte("img"))
	require.Error(t, err)

	var veryfiErr *veryfi.VeryfiError
	assert.ErrorAs(t, err, &veryfiErr)
	assert.Equal(t, StateFailed, svc.UploadState("user-1"))
}

func TestScanReceiptStoreFailure(t *testing.T) {
	repo := newFakeReceiptRepo()
	repo.failWith = &repository.PersistError{Op: "save_receipt", Err: errors.New("down")}
	svc := newTestService(repo, extractorFunc(func(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error) {
		return fixedDocument(), nil
	}))

	_, err := svc.ScanReceipt(context.Background(), "user-1", []byte("img"))
	require.Error(t, err)

	var persistErr *repository.PersistError
	assert.ErrorAs(t, err, &persistErr)
	assert.Equal(t, StateFailed, svc.UploadState("user-1"))
}

func TestScanReceiptRejectsConcurrentUpload(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	extractor := extractorFunc(func(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error) {
		close(started)
		<-release
		return fixedDocument(), nil
	})
	svc := newTestService(newFakeReceiptRepo(), extractor)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ScanReceipt(context.Background(), "user-1", []byte("img"))
		done <- err
	}()

	<-started
	assert.Equal(t, StateUploading, svc.UploadState("user-1"))

	// Second scan for the same user while the first is in flight.
	_, err := svc.ScanReceipt(context.Background(), "user-1", []byte("img"))
	assert.ErrorIs(t, err, ErrUploadInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSucceeded, svc.UploadState("user-1"))
}

func TestCreateManualReceipt(t *testing.T) {
	svc := newTestService(newFakeReceiptRepo(), nil)

	entry := normalize.ManualEntry{
		Category: "Grocery",
		Date:     "2026-08-15",
		Items:    []normalize.ManualItem{{Name: "Milk", Price: "3.50"}},
		Tax:      "0.30",
	}

	stored, err := svc.CreateManualReceipt(context.Background(), "user-1", entry)
	require.NoError(t, err)
	assert.Equal(t, 3.8, stored.Receipt.Total)

	entry.Category = domain.CategoryPlaceholder
	_, err = svc.CreateManualReceipt(context.Background(), "user-1", entry)
	var vErr *normalize.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestQueryAggregateCategoryGate(t *testing.T) {
	repo := newFakeReceiptRepo()
	repo.failWith = errors.New("must not be read")
	svc := newTestService(repo, nil)

	_, err := svc.QueryAggregate(context.Background(), "user-1", aggregate.Filter{})
	assert.ErrorIs(t, err, aggregate.ErrCategoryRequired)
}

func TestQueryAggregateUsesInjectedClock(t *testing.T) {
	repo := newFakeReceiptRepo()
	repo.receipts["user-1"] = []domain.StoredReceipt{
		{Receipt: domain.Receipt{Category: "Grocery", Date: "2026-08-01", Total: 10}},
	}
	svc := newTestService(repo, nil)

	result, err := svc.QueryAggregate(context.Background(), "user-1", aggregate.Filter{Category: "Grocery"})
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeTimeSeries, result.Shape)
	assert.Equal(t, "2026-07-15", result.StartDate)
	assert.Equal(t, "2026-08-15", result.EndDate)
}

func TestPreferencesPassThrough(t *testing.T) {
	svc := newTestService(newFakeReceiptRepo(), nil)
	ctx := context.Background()

	require.NoError(t, svc.SaveBudget(ctx, "user-1", "2500"))
	require.NoError(t, svc.SaveTheme(ctx, "user-1", true))

	prefs, err := svc.LoadPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "2500", prefs.Budget)
	assert.True(t, prefs.IsDarkTheme)
}

func TestUploadStateStartsIdle(t *testing.T) {
	svc := newTestService(newFakeReceiptRepo(), nil)
	assert.Equal(t, StateIdle, svc.UploadState("user-1"))
}
