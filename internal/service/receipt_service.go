package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wastewise/expense-service/internal/aggregate"
	"github.com/wastewise/expense-service/internal/domain"
	"github.com/wastewise/expense-service/internal/imageutil"
	"github.com/wastewise/expense-service/internal/normalize"
	"github.com/wastewise/expense-service/internal/repository"
	"github.com/wastewise/expense-service/internal/veryfi"
)

// ReceiptServiceError represents an error in the receipt service
type ReceiptServiceError struct {
	Op  string
	Err error
}

func (e *ReceiptServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *ReceiptServiceError) Unwrap() error {
	return e.Err
}

// DocumentExtractor uploads an image to the extraction service and
// returns the raw result. Satisfied by *veryfi.Client.
type DocumentExtractor interface {
	ProcessDocument(ctx context.Context, imageData []byte, filename string) (*veryfi.Document, error)
}

// ImageArchiver optionally retains a copy of the uploaded image.
type ImageArchiver interface {
	UploadImage(imageData []byte, filename string) (string, error)
}

// ReceiptService is the user-facing surface of the expense pipeline.
type ReceiptService interface {
	ScanReceipt(ctx context.Context, userID string, imageData []byte) (*domain.StoredReceipt, error)
	CreateManualReceipt(ctx context.Context, userID string, entry normalize.ManualEntry) (*domain.StoredReceipt, error)
	ListReceipts(ctx context.Context, userID string) ([]domain.StoredReceipt, error)
	QueryAggregate(ctx context.Context, userID string, filter aggregate.Filter) (*domain.AggregationResult, error)

	SaveBudget(ctx context.Context, userID string, budget string) error
	SaveTheme(ctx context.Context, userID string, isDarkTheme bool) error
	LoadPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)

	UploadState(userID string) UploadState
}

// ReceiptServiceImpl implements the ReceiptService interface
type ReceiptServiceImpl struct {
	receipts    repository.ReceiptRepository
	preferences repository.PreferencesRepository
	extractor   DocumentExtractor
	archiver    ImageArchiver
	tracker     *uploadTracker
	log         *zap.Logger
	now         func() time.Time
}

// NewReceiptService creates a new ReceiptService. archiver may be nil
// when image retention is not configured.
func NewReceiptService(receipts repository.ReceiptRepository, preferences repository.PreferencesRepository, extractor DocumentExtractor, archiver ImageArchiver, log *zap.Logger) *ReceiptServiceImpl {
	return &ReceiptServiceImpl{
		receipts:    receipts,
		preferences: preferences,
		extractor:   extractor,
		archiver:    archiver,
		tracker:     newUploadTracker(),
		log:         log,
		now:         time.Now,
	}
}

// ScanReceipt runs the full pipeline for one captured image: extract,
// normalize, store. One attempt per stage, no retry; a second scan for
// the same user while one is uploading is rejected with
// ErrUploadInFlight.
func (s *ReceiptServiceImpl) ScanReceipt(ctx context.Context, userID string, imageData []byte) (stored *domain.StoredReceipt, err error) {
	if userID == "" {
		return nil, repository.ErrNotAuthenticated
	}

	if err := s.tracker.begin(userID); err != nil {
		return nil, err
	}
	defer func() { s.tracker.finish(userID, err) }()

	filename := fmt.Sprintf("receipt_%d.jpg", s.now().UnixNano())

	// Oversized captures are downscaled before upload. An image the
	// decoder cannot read is sent as-is and left for the extraction
	// service to reject.
	if scaled, scaleErr := imageutil.Downscale(imageData, imageutil.DefaultMaxDimension); scaleErr == nil {
		imageData = scaled
	}

	doc, err := s.extractor.ProcessDocument(ctx, imageData, filename)
	if err != nil {
		return nil, &ReceiptServiceError{Op: "extract_receipt_data", Err: err}
	}

	receipt := normalize.Normalize(doc)

	id, err := s.receipts.CreateReceipt(ctx, userID, receipt)
	if err != nil {
		return nil, &ReceiptServiceError{Op: "store_receipt", Err: err}
	}

	if s.archiver != nil {
		// Best effort: the receipt is already durable, a lost image
		// copy is not worth failing the scan.
		if _, archiveErr := s.archiver.UploadImage(imageData, filename); archiveErr != nil {
			s.log.Warn("failed to archive receipt image",
				zap.String("filename", filename),
				zap.Error(archiveErr))
		}
	}

	return &domain.StoredReceipt{ID: id, UserID: userID, Receipt: receipt}, nil
}

// CreateManualReceipt validates a manual entry and stores the resulting
// receipt. Validation failures come back as *normalize.ValidationError.
func (s *ReceiptServiceImpl) CreateManualReceipt(ctx context.Context, userID string, entry normalize.ManualEntry) (*domain.StoredReceipt, error) {
	if userID == "" {
		return nil, repository.ErrNotAuthenticated
	}

	receipt, err := entry.Receipt()
	if err != nil {
		return nil, err
	}

	id, err := s.receipts.CreateReceipt(ctx, userID, receipt)
	if err != nil {
		return nil, &ReceiptServiceError{Op: "store_receipt", Err: err}
	}

	return &domain.StoredReceipt{ID: id, UserID: userID, Receipt: receipt}, nil
}

// ListReceipts fetches the user's full collection.
func (s *ReceiptServiceImpl) ListReceipts(ctx context.Context, userID string) ([]domain.StoredReceipt, error) {
	receipts, err := s.receipts.ListReceipts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// QueryAggregate reads the user's receipts and aggregates them. A save
// committing after the read began may or may not be reflected; eventual
// visibility is acceptable here.
func (s *ReceiptServiceImpl) QueryAggregate(ctx context.Context, userID string, filter aggregate.Filter) (*domain.AggregationResult, error) {
	if filter.Category == "" {
		// Rejected before reading any data.
		return nil, aggregate.ErrCategoryRequired
	}

	receipts, err := s.receipts.ListReceipts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return aggregate.Aggregate(receipts, filter, s.now())
}

// SaveBudget persists the user's budget with merge semantics.
func (s *ReceiptServiceImpl) SaveBudget(ctx context.Context, userID string, budget string) error {
	return s.preferences.SaveBudget(ctx, userID, budget)
}

// SaveTheme persists the user's theme choice with merge semantics.
func (s *ReceiptServiceImpl) SaveTheme(ctx context.Context, userID string, isDarkTheme bool) error {
	return s.preferences.SaveTheme(ctx, userID, isDarkTheme)
}

// LoadPreferences returns the user's settings, defaulted when absent.
func (s *ReceiptServiceImpl) LoadPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	return s.preferences.LoadPreferences(ctx, userID)
}

// UploadState reports where the user's latest scan is in its lifecycle.
func (s *ReceiptServiceImpl) UploadState(userID string) UploadState {
	return s.tracker.state(userID)
}

var _ ReceiptService = (*ReceiptServiceImpl)(nil)
