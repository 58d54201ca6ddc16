package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/wastewise/expense-service/internal/domain"
)

const (
	receiptsBucketName    = "receipts"
	preferencesBucketName = "preferences"
)

// BoltRepository is an embedded single-file document store. Receipts
// live in per-user nested buckets keyed by document id; preferences are
// one JSON document per user. It backs both repository interfaces so a
// deployment can run without an external database.
type BoltRepository struct {
	db *bbolt.DB
}

// NewBoltRepository opens (or creates) the store at path.
func NewBoltRepository(path string) (*BoltRepository, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &PersistError{Op: "open_store", Err: err}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(receiptsBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(preferencesBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, &PersistError{Op: "create_buckets", Err: err}
	}

	return &BoltRepository{db: db}, nil
}

// CreateReceipt appends a receipt document under the user's bucket.
func (b *BoltRepository) CreateReceipt(ctx context.Context, userID string, receipt domain.Receipt) (string, error) {
	if userID == "" {
		return "", ErrNotAuthenticated
	}

	stored := domain.StoredReceipt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Receipt:   receipt,
		CreatedAt: time.Now().UTC(),
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		userBucket, err := tx.Bucket([]byte(receiptsBucketName)).CreateBucketIfNotExists([]byte(userID))
		if err != nil {
			return err
		}
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		return userBucket.Put([]byte(stored.ID), data)
	})
	if err != nil {
		return "", &PersistError{Op: "save_receipt", Err: err}
	}
	return stored.ID, nil
}

// ListReceipts returns every receipt document in the user's bucket.
func (b *BoltRepository) ListReceipts(ctx context.Context, userID string) ([]domain.StoredReceipt, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	receipts := make([]domain.StoredReceipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		userBucket := tx.Bucket([]byte(receiptsBucketName)).Bucket([]byte(userID))
		if userBucket == nil {
			return nil
		}
		return userBucket.ForEach(func(k, v []byte) error {
			var stored domain.StoredReceipt
			if err := json.Unmarshal(v, &stored); err != nil {
				return err
			}
			receipts = append(receipts, stored)
			return nil
		})
	})
	if err != nil {
		return nil, &PersistError{Op: "list_receipts", Err: err}
	}
	return receipts, nil
}

// SaveBudget merge-writes the budget field of the preferences document.
func (b *BoltRepository) SaveBudget(ctx context.Context, userID string, budget string) error {
	return b.mergePreferences(userID, "save_budget", func(prefs *domain.UserPreferences) {
		prefs.Budget = budget
	})
}

// SaveTheme merge-writes the theme field of the preferences document.
func (b *BoltRepository) SaveTheme(ctx context.Context, userID string, isDarkTheme bool) error {
	return b.mergePreferences(userID, "save_theme", func(prefs *domain.UserPreferences) {
		prefs.IsDarkTheme = isDarkTheme
	})
}

// mergePreferences does a read-modify-write of the user's document so a
// partial update never clobbers the untouched field.
func (b *BoltRepository) mergePreferences(userID, op string, apply func(*domain.UserPreferences)) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(preferencesBucketName))
		prefs := domain.DefaultPreferences()
		if data := bucket.Get([]byte(userID)); data != nil {
			if err := json.Unmarshal(data, &prefs); err != nil {
				return err
			}
		}
		apply(&prefs)
		data, err := json.Marshal(prefs)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(userID), data)
	})
	if err != nil {
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

// LoadPreferences returns the stored document, or the defaults when the
// user has never saved anything.
func (b *BoltRepository) LoadPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	if userID == "" {
		return domain.DefaultPreferences(), ErrNotAuthenticated
	}

	prefs := domain.DefaultPreferences()
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(preferencesBucketName)).Get([]byte(userID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &prefs)
	})
	if err != nil {
		return domain.DefaultPreferences(), &PersistError{Op: "load_preferences", Err: err}
	}
	return prefs, nil
}

// Close closes the underlying store.
func (b *BoltRepository) Close() error {
	return b.db.Close()
}

var (
	_ ReceiptRepository     = (*BoltRepository)(nil)
	_ PreferencesRepository = (*BoltRepository)(nil)
)
