package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// ExternalLoadRepository stores the per-term external load flag.
type ExternalLoadRepository struct {
	db *sqlx.DB
}

// NewExternalLoadRepository constructs the repository.
func NewExternalLoadRepository(db *sqlx.DB) *ExternalLoadRepository {
	return &ExternalLoadRepository{db: db}
}

// ListByTerm returns the flagged faculty members of the term.
func (r *ExternalLoadRepository) ListByTerm(ctx context.Context, termID string) ([]models.ExternalLoad, error) {
	const query = `SELECT faculty_member_id, term_id, created_at FROM external_loads WHERE term_id = $1 ORDER BY faculty_member_id`
	var loads []models.ExternalLoad
	if err := r.db.SelectContext(ctx, &loads, query, termID); err != nil {
		return nil, fmt.Errorf("list external loads: %w", err)
	}
	return loads, nil
}

// Set flags the faculty member for the term. Setting twice is a no-op.
func (r *ExternalLoadRepository) Set(ctx context.Context, termID, facultyMemberID string) error {
	const query = `INSERT INTO external_loads (faculty_member_id, term_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, facultyMemberID, termID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set external load: %w", err)
	}
	return nil
}

// Clear removes the flag.
func (r *ExternalLoadRepository) Clear(ctx context.Context, termID, facultyMemberID string) error {
	const query = `DELETE FROM external_loads WHERE faculty_member_id = $1 AND term_id = $2`
	if _, err := r.db.ExecContext(ctx, query, facultyMemberID, termID); err != nil {
		return fmt.Errorf("clear external load: %w", err)
	}
	return nil
}
