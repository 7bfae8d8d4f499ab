package repository

import (
	"database/sql"
	"fmt"

	"tutorhub/internal/database"
	"tutorhub/internal/models"
)

// ResetRepository handles database operations for the password-reset ledger.
// Each user has at most one row; the token column is NULL outside an active
// reset window.
type ResetRepository struct {
	db *database.DB
}

// NewResetRepository creates a new password-reset repository
func NewResetRepository(db *database.DB) *ResetRepository {
	return &ResetRepository{db: db}
}

func scanReset(row *sql.Row) (*models.PasswordReset, error) {
	reset := &models.PasswordReset{}
	err := row.Scan(
		&reset.ID,
		&reset.UserID,
		&reset.Token,
		&reset.CreatedAt,
		&reset.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset: %w", err)
	}
	return reset, nil
}

// GetByUserID retrieves the reset record owned by a user, if any
func (r *ResetRepository) GetByUserID(userID int64) (*models.PasswordReset, error) {
	query := `
		SELECT id, user_id, token, created_at, updated_at
		FROM password_resets
		WHERE user_id = ?
	`
	return scanReset(r.db.QueryRow(query, userID))
}

// GetByToken resolves an active reset token to its record.
// Cleared (NULL) tokens never match.
func (r *ResetRepository) GetByToken(token string) (*models.PasswordReset, error) {
	if token == "" {
		return nil, nil
	}
	query := `
		SELECT id, user_id, token, created_at, updated_at
		FROM password_resets
		WHERE token = ?
	`
	return scanReset(r.db.QueryRow(query, token))
}

// GetOrCreate returns the user's reset record, creating an empty one on
// first use (lazy creation, mirroring the forgot-password flow).
func (r *ResetRepository) GetOrCreate(userID int64) (*models.PasswordReset, error) {
	existing, err := r.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	query := `
		INSERT INTO password_resets (user_id, token)
		VALUES (?, NULL)
	`
	if _, err := r.db.ExecReturningID(query, userID); err != nil {
		return nil, fmt.Errorf("failed to create password reset: %w", err)
	}

	return r.GetByUserID(userID)
}

// SetToken assigns a fresh token to the user's reset record, replacing
// any previously issued token.
func (r *ResetRepository) SetToken(userID int64, token string) error {
	query := `
		UPDATE password_resets
		SET token = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return nil
}

// ClearToken nulls the token after a successful password change,
// enforcing single use.
func (r *ResetRepository) ClearToken(userID int64) error {
	query := `
		UPDATE password_resets
		SET token = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}
