package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/models"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type mockAuthRepo struct {
	user             *models.User
	findErr          error
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.user == nil || m.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *mockAuthRepo) {
	t.Helper()
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	repo := &mockAuthRepo{user: &models.User{
		ID:           "user-1",
		Email:        "dean@example.edu",
		PasswordHash: hash,
		FirstName:    "Dana",
		Role:         models.RoleDean,
		Active:       active,
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "faculty-loading",
	})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "dean@example.edu", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, models.RoleDean, resp.User.Role)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleDean, claims.Role)
	assert.Equal(t, "faculty-loading", claims.Issuer)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "dean@example.edu", Password: "wrong"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorOf(t, err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.edu", Password: "s3cret!"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorOf(t, err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorOf(t, err).Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	svc, repo := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "dean@example.edu", Password: "s3cret!"})
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrorOf(t, err).Code)
	assert.False(t, repo.lastLoginUpdated)
}

func TestValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "dean@example.edu", Password: "s3cret!"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorOf(t, err).Code)

	other, _ := newAuthFixture(t, true)
	other.config.AccessTokenSecret = "another-secret"
	other.now = time.Now
	_, err = other.ValidateToken(resp.AccessToken)
	assert.Error(t, err)
}
