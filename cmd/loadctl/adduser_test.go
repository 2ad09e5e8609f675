package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

type accountStore struct {
	users   []*models.User
	members []*models.FacultyMember
	failOn  string
}

func (s *accountStore) createUser(ctx context.Context, user *models.User) error {
	if s.failOn == "user" {
		return errors.New("duplicate email")
	}
	user.ID = "u-1"
	s.users = append(s.users, user)
	return nil
}

func (s *accountStore) createMember(ctx context.Context, member *models.FacultyMember) error {
	s.members = append(s.members, member)
	return nil
}

type userCreateFunc func(ctx context.Context, user *models.User) error

func (f userCreateFunc) Create(ctx context.Context, user *models.User) error { return f(ctx, user) }

type memberCreateFunc func(ctx context.Context, member *models.FacultyMember) error

func (f memberCreateFunc) Create(ctx context.Context, member *models.FacultyMember) error {
	return f(ctx, member)
}

func setFlags(t *testing.T, email, password, role, rank string) {
	t.Helper()
	prev := []string{emailFlag, passwordFlag, roleFlag, rankFlag, firstNameFlag, lastNameFlag}
	emailFlag, passwordFlag, roleFlag, rankFlag = email, password, role, rank
	firstNameFlag, lastNameFlag = "Maria", "Santos"
	t.Cleanup(func() {
		emailFlag, passwordFlag, roleFlag, rankFlag, firstNameFlag, lastNameFlag = prev[0], prev[1], prev[2], prev[3], prev[4], prev[5]
	})
}

func TestBuildAccountFaculty(t *testing.T) {
	setFlags(t, " Maria@Example.edu ", "", "faculty", "associate_professor")

	var out bytes.Buffer
	user, member, err := buildAccount(strings.NewReader("s3cret\ns3cret\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "maria@example.edu", user.Email)
	assert.Equal(t, models.RoleFaculty, user.Role)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	require.NotNil(t, member)
	assert.Equal(t, models.RankAssociateProfessor, member.Rank)
	assert.Contains(t, out.String(), "Confirm password")

	store := &accountStore{}
	require.NoError(t, createAccount(context.Background(), userCreateFunc(store.createUser), memberCreateFunc(store.createMember), user, member))
	require.Len(t, store.members, 1)
	assert.Equal(t, "u-1", store.members[0].UserID)
}

func TestBuildAccountStaffSkipsFacultyRecord(t *testing.T) {
	setFlags(t, "clerk@example.edu", "pw", "CLERK", "not-a-rank")

	user, member, err := buildAccount(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClerk, user.Role)
	assert.Nil(t, member)

	store := &accountStore{failOn: "user"}
	err = createAccount(context.Background(), userCreateFunc(store.createUser), memberCreateFunc(store.createMember), user, member)
	assert.EqualError(t, err, "duplicate email")
}

func TestBuildAccountRejectsBadInput(t *testing.T) {
	setFlags(t, "", "pw", "DEAN", "")
	_, _, err := buildAccount(strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)

	setFlags(t, "x@example.edu", "pw", "REGISTRAR", "")
	_, _, err = buildAccount(strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)

	setFlags(t, "x@example.edu", "pw", "FACULTY", "LECTURER")
	_, _, err = buildAccount(strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)

	setFlags(t, "x@example.edu", "", "DEAN", "")
	_, _, err = buildAccount(strings.NewReader("one\ntwo\n"), &bytes.Buffer{})
	assert.EqualError(t, err, "passwords do not match")
}
