package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// FeedbackRepository persists faculty to class meeting assignments.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Assign links the meeting to the faculty member with a pending status. An existing
// assignment of the meeting is replaced and keeps its id and created_at.
func (r *FeedbackRepository) Assign(ctx context.Context, classMeetingID, facultyMemberID string) (*models.Feedback, error) {
	now := time.Now().UTC()
	feedback := &models.Feedback{
		ID:              uuid.NewString(),
		ClassMeetingID:  classMeetingID,
		FacultyMemberID: facultyMemberID,
		Status:          models.FeedbackPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	const query = `INSERT INTO feedbacks (id, class_meeting_id, faculty_member_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (class_meeting_id) DO UPDATE
		SET faculty_member_id = EXCLUDED.faculty_member_id,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, feedback.ID, classMeetingID, facultyMemberID, feedback.Status, now, now)
	if err := row.Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt); err != nil {
		return nil, fmt.Errorf("assign class meeting: %w", err)
	}
	return feedback, nil
}

// UpdateStatus records the faculty member's response.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error {
	const query = `UPDATE feedbacks SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ExperienceCounts aggregates accepted assignments per faculty member and subject across all terms.
func (r *FeedbackRepository) ExperienceCounts(ctx context.Context) ([]models.ExperienceCount, error) {
	const query = `SELECT f.faculty_member_id, cm.subject_id, COUNT(*) AS count
		FROM feedbacks f
		JOIN class_meetings cm ON cm.id = f.class_meeting_id
		WHERE f.status = $1
		GROUP BY f.faculty_member_id, cm.subject_id`
	var counts []models.ExperienceCount
	if err := r.db.SelectContext(ctx, &counts, query, models.FeedbackAccepted); err != nil {
		return nil, fmt.Errorf("count teaching experience: %w", err)
	}
	return counts, nil
}
