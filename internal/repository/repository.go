package repository

import (
	"context"
	"errors"

	"github.com/wastewise/expense-service/internal/domain"
)

// ErrNotAuthenticated marks an operation attempted without a user scope.
// Kept distinct from store failures so callers can tell "you are not
// signed in" apart from "the store is down".
var ErrNotAuthenticated = errors.New("not authenticated: no user scope")

// PersistError represents a failed read or write against the store.
type PersistError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

func (e *PersistError) Error() string {
	if e.Err == nil {
		return "persist error: " + e.Op
	}
	return "persist error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *PersistError) Unwrap() error {
	return e.Err
}

// ReceiptRepository is the per-user receipt collection. Appends are
// unconditional: no dedup or idempotency key, equal content creates
// distinct records. Listing is fetch-all, unordered, unpaginated.
type ReceiptRepository interface {
	CreateReceipt(ctx context.Context, userID string, receipt domain.Receipt) (string, error)
	ListReceipts(ctx context.Context, userID string) ([]domain.StoredReceipt, error)
}

// PreferencesRepository stores the singleton-per-user settings record.
// Budget and theme are written independently with merge semantics: a
// partial update never clobbers the other field. Loading an absent
// record yields the defaults without error; a store failure is an error.
type PreferencesRepository interface {
	SaveBudget(ctx context.Context, userID string, budget string) error
	SaveTheme(ctx context.Context, userID string, isDarkTheme bool) error
	LoadPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}
