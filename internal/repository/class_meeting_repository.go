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

// ClassMeetingRepository persists class meetings and reads them joined with subject and feedback.
type ClassMeetingRepository struct {
	db *sqlx.DB
}

// NewClassMeetingRepository constructs the repository.
func NewClassMeetingRepository(db *sqlx.DB) *ClassMeetingRepository {
	return &ClassMeetingRepository{db: db}
}

const classMeetingSelect = `SELECT cm.id, cm.term_id, cm.subject_id, cm.meeting_days, cm.meeting_hours, cm.room, cm.section,
		cm.course, cm.student_year, cm.for_adjunct, cm.adjunct_name, cm.created_at, cm.updated_at,
		s.code AS subject_code, s.name AS subject_name, s.description AS subject_description,
		s.category AS subject_category, s.program AS subject_program,
		f.id AS feedback_id, f.faculty_member_id AS feedback_faculty_member_id, f.status AS feedback_status,
		f.created_at AS feedback_created_at, f.updated_at AS feedback_updated_at
	FROM class_meetings cm
	JOIN subjects s ON s.id = cm.subject_id
	LEFT JOIN feedbacks f ON f.class_meeting_id = cm.id`

const meetingHoursOrder = `array_position(ARRAY['AM_7_9','AM_9_11','AM_11_1','PM_1_3','PM_3_5','PM_5_7'], cm.meeting_hours)`

type classMeetingRow struct {
	models.ClassMeeting

	SubjectCode        string                 `db:"subject_code"`
	SubjectName        string                 `db:"subject_name"`
	SubjectDescription string                 `db:"subject_description"`
	SubjectCategory    models.SubjectCategory `db:"subject_category"`
	SubjectProgram     string                 `db:"subject_program"`

	FeedbackID              sql.NullString `db:"feedback_id"`
	FeedbackFacultyMemberID sql.NullString `db:"feedback_faculty_member_id"`
	FeedbackStatus          sql.NullString `db:"feedback_status"`
	FeedbackCreatedAt       sql.NullTime   `db:"feedback_created_at"`
	FeedbackUpdatedAt       sql.NullTime   `db:"feedback_updated_at"`
}

func (row classMeetingRow) toModel() models.ClassMeeting {
	meeting := row.ClassMeeting
	meeting.Subject = models.Subject{
		ID:          meeting.SubjectID,
		Code:        row.SubjectCode,
		Name:        row.SubjectName,
		Description: row.SubjectDescription,
		Category:    row.SubjectCategory,
		Program:     row.SubjectProgram,
	}
	if row.FeedbackID.Valid {
		meeting.Feedback = &models.Feedback{
			ID:              row.FeedbackID.String,
			ClassMeetingID:  meeting.ID,
			FacultyMemberID: row.FeedbackFacultyMemberID.String,
			Status:          models.FeedbackStatus(row.FeedbackStatus.String),
			CreatedAt:       row.FeedbackCreatedAt.Time,
			UpdatedAt:       row.FeedbackUpdatedAt.Time,
		}
	}
	return meeting
}

// List returns the meetings of a term in block order.
func (r *ClassMeetingRepository) List(ctx context.Context, filter models.ClassMeetingFilter) ([]models.ClassMeeting, error) {
	conditions := []string{"cm.term_id = $1"}
	args := []interface{}{filter.TermID}
	if filter.FacultyMemberID != "" {
		args = append(args, filter.FacultyMemberID)
		conditions = append(conditions, fmt.Sprintf("f.faculty_member_id = $%d", len(args)))
	}
	if filter.UnassignedOnly {
		conditions = append(conditions, "f.id IS NULL")
	}

	query := classMeetingSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY cm.meeting_days, " + meetingHoursOrder + ", cm.id"
	var rows []classMeetingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list class meetings: %w", err)
	}
	meetings := make([]models.ClassMeeting, 0, len(rows))
	for _, row := range rows {
		meetings = append(meetings, row.toModel())
	}
	return meetings, nil
}

// FindByID returns one meeting with subject and feedback.
func (r *ClassMeetingRepository) FindByID(ctx context.Context, id string) (*models.ClassMeeting, error) {
	var row classMeetingRow
	if err := r.db.GetContext(ctx, &row, classMeetingSelect+" WHERE cm.id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class meeting: %w", err)
	}
	meeting := row.toModel()
	return &meeting, nil
}

// Create inserts a class meeting.
func (r *ClassMeetingRepository) Create(ctx context.Context, meeting *models.ClassMeeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	const query = `INSERT INTO class_meetings (id, term_id, subject_id, meeting_days, meeting_hours, room, section, course, student_year, for_adjunct, adjunct_name, created_at, updated_at)
		VALUES (:id, :term_id, :subject_id, :meeting_days, :meeting_hours, :room, :section, :course, :student_year, :for_adjunct, :adjunct_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, meeting); err != nil {
		return fmt.Errorf("create class meeting: %w", err)
	}
	return nil
}
