package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wastewise/expense-service/internal/domain"
)

// PostgresPreferencesRepository implements PreferencesRepository using PostgreSQL
type PostgresPreferencesRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPreferencesRepository creates a new PostgreSQL preferences repository
func NewPostgresPreferencesRepository(db *pgxpool.Pool) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{
		db: db,
	}
}

// SaveBudget writes the budget field only; the theme column keeps its
// current value (merge-write).
func (r *PostgresPreferencesRepository) SaveBudget(ctx context.Context, userID string, budget string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO user_preferences (user_id, budget)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET budget = EXCLUDED.budget, updated_at = now()
	`, userID, budget)
	if err != nil {
		return &PersistError{Op: "save_budget", Err: err}
	}
	return nil
}

// SaveTheme writes the theme field only; budget keeps its current value.
func (r *PostgresPreferencesRepository) SaveTheme(ctx context.Context, userID string, isDarkTheme bool) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO user_preferences (user_id, is_dark_theme)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET is_dark_theme = EXCLUDED.is_dark_theme, updated_at = now()
	`, userID, isDarkTheme)
	if err != nil {
		return &PersistError{Op: "save_theme", Err: err}
	}
	return nil
}

// LoadPreferences returns the stored record, or the defaults when the
// user has never saved anything.
func (r *PostgresPreferencesRepository) LoadPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	if userID == "" {
		return domain.DefaultPreferences(), ErrNotAuthenticated
	}

	var prefs domain.UserPreferences
	err := r.db.QueryRow(ctx, `
		SELECT budget, is_dark_theme
		FROM user_preferences
		WHERE user_id = $1
	`, userID).Scan(&prefs.Budget, &prefs.IsDarkTheme)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.DefaultPreferences(), &PersistError{Op: "load_preferences", Err: err}
	}
	return prefs, nil
}

var _ PreferencesRepository = (*PostgresPreferencesRepository)(nil)
