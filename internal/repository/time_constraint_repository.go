package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

const timeConstraintColumns = `id, faculty_member_id, term_id, meeting_days, meeting_hours, availability, is_preferred, created_at`

// TimeConstraintRepository persists faculty availability per term.
type TimeConstraintRepository struct {
	db *sqlx.DB
}

// NewTimeConstraintRepository constructs the repository.
func NewTimeConstraintRepository(db *sqlx.DB) *TimeConstraintRepository {
	return &TimeConstraintRepository{db: db}
}

// ListByTerm returns every constraint submitted for the term.
func (r *TimeConstraintRepository) ListByTerm(ctx context.Context, termID string) ([]models.TimeConstraint, error) {
	query := `SELECT ` + timeConstraintColumns + ` FROM time_constraints WHERE term_id = $1 ORDER BY faculty_member_id, meeting_days, meeting_hours`
	var constraints []models.TimeConstraint
	if err := r.db.SelectContext(ctx, &constraints, query, termID); err != nil {
		return nil, fmt.Errorf("list time constraints: %w", err)
	}
	return constraints, nil
}

// ListByFaculty returns the constraints one faculty member submitted for the term.
func (r *TimeConstraintRepository) ListByFaculty(ctx context.Context, termID, facultyMemberID string) ([]models.TimeConstraint, error) {
	query := `SELECT ` + timeConstraintColumns + ` FROM time_constraints WHERE term_id = $1 AND faculty_member_id = $2 ORDER BY meeting_days, meeting_hours`
	var constraints []models.TimeConstraint
	if err := r.db.SelectContext(ctx, &constraints, query, termID, facultyMemberID); err != nil {
		return nil, fmt.Errorf("list faculty time constraints: %w", err)
	}
	return constraints, nil
}

// Replace swaps the faculty member's constraints for the term atomically.
func (r *TimeConstraintRepository) Replace(ctx context.Context, termID, facultyMemberID string, constraints []models.TimeConstraint) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace time constraints tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM time_constraints WHERE term_id = $1 AND faculty_member_id = $2`, termID, facultyMemberID); err != nil {
		return fmt.Errorf("clear time constraints: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO time_constraints (` + timeConstraintColumns + `)
		VALUES (:id, :faculty_member_id, :term_id, :meeting_days, :meeting_hours, :availability, :is_preferred, :created_at)`
	for i := range constraints {
		c := &constraints[i]
		c.ID = uuid.NewString()
		c.TermID = termID
		c.FacultyMemberID = facultyMemberID
		c.CreatedAt = now
		if _, err = tx.NamedExecContext(ctx, insert, c); err != nil {
			return fmt.Errorf("insert time constraint: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace time constraints tx: %w", err)
	}
	return nil
}
