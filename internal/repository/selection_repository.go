package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

// SelectionRepository persists saved section selections per user and term.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository builds repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Save inserts or replaces the selection with the same user, term, and label.
func (r *SelectionRepository) Save(ctx context.Context, selection *models.Selection) error {
	now := time.Now().UTC()
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}
	if selection.CreatedAt.IsZero() {
		selection.CreatedAt = now
	}
	selection.UpdatedAt = now
	if err := selection.EncodeSectionIDs(); err != nil {
		return err
	}

	const query = `
INSERT INTO selections (id, user_id, term_id, label, section_ids, created_at, updated_at)
VALUES (:id, :user_id, :term_id, :label, :section_ids, :created_at, :updated_at)
ON CONFLICT (user_id, term_id, label) DO UPDATE
SET section_ids = EXCLUDED.section_ids,
    updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, selection); err != nil {
		return fmt.Errorf("save selection %s: %w", selection.Label, err)
	}
	return nil
}

// ListByUser returns a user's selections for a term, newest first.
func (r *SelectionRepository) ListByUser(ctx context.Context, userID, termID string) ([]models.Selection, error) {
	const query = `SELECT id, user_id, term_id, label, section_ids, created_at, updated_at
FROM selections WHERE user_id = $1 AND term_id = $2 ORDER BY updated_at DESC`
	var selections []models.Selection
	if err := r.db.SelectContext(ctx, &selections, query, userID, termID); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	for i := range selections {
		if err := selections[i].DecodeSectionIDs(); err != nil {
			return nil, err
		}
	}
	return selections, nil
}

// FindByID loads a single selection owned by the user.
func (r *SelectionRepository) FindByID(ctx context.Context, userID, id string) (*models.Selection, error) {
	const query = `SELECT id, user_id, term_id, label, section_ids, created_at, updated_at
FROM selections WHERE id = $1 AND user_id = $2`
	var selection models.Selection
	if err := r.db.GetContext(ctx, &selection, query, id, userID); err != nil {
		return nil, fmt.Errorf("find selection %s: %w", id, err)
	}
	if err := selection.DecodeSectionIDs(); err != nil {
		return nil, err
	}
	return &selection, nil
}

// Delete removes a selection owned by the user.
func (r *SelectionRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM selections WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete selection %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete selection %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("selection %s: %w", id, sql.ErrNoRows)
	}
	return nil
}
