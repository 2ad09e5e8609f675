package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

const facultyMemberColumns = `id, user_id, first_name, last_name, pnu_id, rank, activity, created_at, updated_at`

// FacultyMemberRepository reads the faculty roster and its credentials.
type FacultyMemberRepository struct {
	db *sqlx.DB
}

// NewFacultyMemberRepository constructs the repository.
func NewFacultyMemberRepository(db *sqlx.DB) *FacultyMemberRepository {
	return &FacultyMemberRepository{db: db}
}

// ListActive returns active faculty members ordered by id with their credentials attached.
func (r *FacultyMemberRepository) ListActive(ctx context.Context) ([]models.FacultyMember, error) {
	query := `SELECT ` + facultyMemberColumns + ` FROM faculty_members WHERE activity = $1 ORDER BY id`
	var members []models.FacultyMember
	if err := r.db.SelectContext(ctx, &members, query, models.ActivityActive); err != nil {
		return nil, fmt.Errorf("list active faculty members: %w", err)
	}
	if err := r.attachCredentials(ctx, members); err != nil {
		return nil, err
	}
	return members, nil
}

// FindByID returns a faculty member with credentials.
func (r *FacultyMemberRepository) FindByID(ctx context.Context, id string) (*models.FacultyMember, error) {
	return r.findOne(ctx, `SELECT `+facultyMemberColumns+` FROM faculty_members WHERE id = $1 LIMIT 1`, id)
}

// FindByUserID returns the faculty member linked to a user account.
func (r *FacultyMemberRepository) FindByUserID(ctx context.Context, userID string) (*models.FacultyMember, error) {
	return r.findOne(ctx, `SELECT `+facultyMemberColumns+` FROM faculty_members WHERE user_id = $1 LIMIT 1`, userID)
}

func (r *FacultyMemberRepository) findOne(ctx context.Context, query, arg string) (*models.FacultyMember, error) {
	var member models.FacultyMember
	if err := r.db.GetContext(ctx, &member, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find faculty member: %w", err)
	}
	members := []models.FacultyMember{member}
	if err := r.attachCredentials(ctx, members); err != nil {
		return nil, err
	}
	return &members[0], nil
}

// Create inserts a faculty member.
func (r *FacultyMemberRepository) Create(ctx context.Context, member *models.FacultyMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if member.Activity == "" {
		member.Activity = models.ActivityActive
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `INSERT INTO faculty_members (id, user_id, first_name, last_name, pnu_id, rank, activity, created_at, updated_at)
		VALUES (:id, :user_id, :first_name, :last_name, :pnu_id, :rank, :activity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create faculty member: %w", err)
	}
	return nil
}

func (r *FacultyMemberRepository) attachCredentials(ctx context.Context, members []models.FacultyMember) error {
	if len(members) == 0 {
		return nil
	}
	ids := make([]string, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		ids[i] = m.ID
		index[m.ID] = i
	}

	const query = `SELECT id, faculty_member_id, kind, title, associated_programs, created_at FROM credentials WHERE faculty_member_id = ANY($1) ORDER BY faculty_member_id, id`
	var credentials []models.Credential
	if err := r.db.SelectContext(ctx, &credentials, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list credentials: %w", err)
	}
	for _, c := range credentials {
		if i, ok := index[c.FacultyMemberID]; ok {
			members[i].Credentials = append(members[i].Credentials, c)
		}
	}
	return nil
}
