package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

var facultyMemberRowColumns = []string{"id", "user_id", "first_name", "last_name", "pnu_id", "rank", "activity", "created_at", "updated_at"}

func TestFacultyMemberRepositoryListActiveAttachesCredentials(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyMemberRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM faculty_members WHERE activity = \\$1 ORDER BY id").
		WithArgs(models.ActivityActive).
		WillReturnRows(sqlmock.NewRows(facultyMemberRowColumns).
			AddRow("fm-1", "u-1", "Ana", "Reyes", "PNU-1", "INSTRUCTOR", "ACTIVE", now, now).
			AddRow("fm-2", "u-2", "Ben", "Lim", "PNU-2", "PART_TIME", "ACTIVE", now, now))
	mock.ExpectQuery("FROM credentials WHERE faculty_member_id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "faculty_member_id", "kind", "title", "associated_programs", "created_at"}).
			AddRow("c-1", "fm-1", "DEGREE", "MS Computer Science", "{BSIT,BSCS}", now).
			AddRow("c-2", "fm-1", "RECOGNITION", "Best Teacher", "{BSIT}", now))

	members, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Len(t, members[0].Credentials, 2)
	assert.True(t, members[0].Credentials[0].AssociatedWith("BSCS"))
	assert.Empty(t, members[1].Credentials)
	assert.Equal(t, models.RankPartTime, members[1].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyMemberRepositoryFindByUserID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyMemberRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM faculty_members WHERE user_id = \\$1").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(facultyMemberRowColumns).
			AddRow("fm-1", "u-1", "Ana", "Reyes", "PNU-1", "INSTRUCTOR", "ACTIVE", now, now))
	mock.ExpectQuery("FROM credentials").
		WillReturnRows(sqlmock.NewRows([]string{"id", "faculty_member_id", "kind", "title", "associated_programs", "created_at"}))

	member, err := repo.FindByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "fm-1", member.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyMemberRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFacultyMemberRepository(db)

	mock.ExpectExec("INSERT INTO faculty_members").
		WithArgs(sqlmock.AnyArg(), "u-1", "Ana", "Reyes", "PNU-1", models.RankInstructor, models.ActivityActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	member := &models.FacultyMember{UserID: "u-1", FirstName: "Ana", LastName: "Reyes", PnuID: "PNU-1", Rank: models.RankInstructor}
	require.NoError(t, repo.Create(context.Background(), member))
	assert.NotEmpty(t, member.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
