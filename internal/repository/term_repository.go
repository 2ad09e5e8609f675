package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

const termColumns = `id, start_year, ordinal, status, created_at, updated_at`

// TermRepository handles persistence for scheduling terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns terms matching provided filters, newest first.
func (r *TermRepository) List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	base := "FROM terms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.StartYear != nil {
		conditions = append(conditions, fmt.Sprintf("start_year = $%d", len(args)+1))
		args = append(args, *filter.StartYear)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY start_year DESC, created_at DESC LIMIT %d OFFSET %d", termColumns, base, size, offset)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list terms: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count terms: %w", err)
	}
	return terms, total, nil
}

// FindByID loads a term by identifier.
func (r *TermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE id = $1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// FindCurrent returns the single term that is not archived.
func (r *TermRepository) FindCurrent(ctx context.Context) (*models.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE status <> $1 ORDER BY created_at DESC LIMIT 1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, models.TermArchived); err != nil {
		return nil, err
	}
	return &term, nil
}

// ExistsByYearAndOrdinal checks whether the slot of the academic year is taken.
func (r *TermRepository) ExistsByYearAndOrdinal(ctx context.Context, startYear int, ordinal models.OrdinalTerm) (bool, error) {
	const query = `SELECT 1 FROM terms WHERE start_year = $1 AND ordinal = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, startYear, ordinal); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check term uniqueness: %w", err)
	}
	return true, nil
}

// Create archives every other term and inserts the new one as initializing.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) (err error) {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	term.Status = models.TermInitializing
	term.CreatedAt = now
	term.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create term tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE terms SET status = $1, updated_at = $2 WHERE status <> $1`, models.TermArchived, now); err != nil {
		return fmt.Errorf("archive terms: %w", err)
	}

	const insert = `INSERT INTO terms (id, start_year, ordinal, status, created_at, updated_at) VALUES (:id, :start_year, :ordinal, :status, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insert, term); err != nil {
		return fmt.Errorf("create term: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create term tx: %w", err)
	}
	return nil
}

// UpdateStatus moves the term to status.
func (r *TermRepository) UpdateStatus(ctx context.Context, id string, status models.TermStatus) error {
	const query = `UPDATE terms SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update term status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
