package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wastewise/expense-service/internal/domain"
)

// PostgresReceiptRepository implements ReceiptRepository using PostgreSQL
type PostgresReceiptRepository struct {
	db *pgxpool.Pool
}

// NewPostgresReceiptRepository creates a new PostgreSQL receipt repository
func NewPostgresReceiptRepository(db *pgxpool.Pool) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{
		db: db,
	}
}

// CreateReceipt appends a receipt to the user's collection and returns
// the server-assigned identifier.
func (r *PostgresReceiptRepository) CreateReceipt(ctx context.Context, userID string, receipt domain.Receipt) (string, error) {
	if userID == "" {
		return "", ErrNotAuthenticated
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", &PersistError{Op: "begin_transaction", Err: err}
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	var receiptID string
	err = tx.QueryRow(ctx, `
		INSERT INTO receipts (user_id, category, date, currency, subtotal, tax, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, userID, receipt.Category, receipt.Date, receipt.Currency, receipt.Subtotal, receipt.Tax, receipt.Total).Scan(&receiptID)
	if err != nil {
		return "", &PersistError{Op: "insert_receipt", Err: err}
	}

	for i, item := range receipt.Items {
		// position preserves insertion order, which is also the
		// presentation order.
		_, err = tx.Exec(ctx, `
			INSERT INTO receipt_items (receipt_id, position, name, price)
			VALUES ($1, $2, $3, $4)
		`, receiptID, i, item.Name, item.Price)
		if err != nil {
			return "", &PersistError{Op: "insert_receipt_item", Err: err}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return "", &PersistError{Op: "commit_transaction", Err: err}
	}

	return receiptID, nil
}

// ListReceipts fetches the user's full collection. No pagination: the
// caller gets everything in one pass.
func (r *PostgresReceiptRepository) ListReceipts(ctx context.Context, userID string) ([]domain.StoredReceipt, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, category, date, currency, subtotal, tax, total, created_at
		FROM receipts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, &PersistError{Op: "query_receipts", Err: err}
	}
	defer rows.Close()

	var receipts []domain.StoredReceipt
	index := make(map[string]int)
	for rows.Next() {
		var stored domain.StoredReceipt
		err := rows.Scan(
			&stored.ID, &stored.UserID, &stored.Receipt.Category, &stored.Receipt.Date,
			&stored.Receipt.Currency, &stored.Receipt.Subtotal, &stored.Receipt.Tax,
			&stored.Receipt.Total, &stored.CreatedAt,
		)
		if err != nil {
			return nil, &PersistError{Op: "scan_receipt", Err: err}
		}
		index[stored.ID] = len(receipts)
		receipts = append(receipts, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistError{Op: "iterate_receipts", Err: err}
	}

	if len(receipts) == 0 {
		return receipts, nil
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT ri.receipt_id, ri.name, ri.price
		FROM receipt_items ri
		JOIN receipts r ON r.id = ri.receipt_id
		WHERE r.user_id = $1
		ORDER BY ri.receipt_id, ri.position
	`, userID)
	if err != nil {
		return nil, &PersistError{Op: "query_receipt_items", Err: err}
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var receiptID string
		var item domain.LineItem
		if err := itemRows.Scan(&receiptID, &item.Name, &item.Price); err != nil {
			return nil, &PersistError{Op: "scan_receipt_item", Err: err}
		}
		if i, ok := index[receiptID]; ok {
			receipts[i].Receipt.Items = append(receipts[i].Receipt.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, &PersistError{Op: "iterate_receipt_items", Err: err}
	}

	return receipts, nil
}

var _ ReceiptRepository = (*PostgresReceiptRepository)(nil)
