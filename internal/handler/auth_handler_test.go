package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-loading-api/internal/models"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type authMock struct {
	req models.LoginRequest
}

func (m *authMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.req = req
	if req.Password != "s3cret!" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 900}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &authMock{}
	router := gin.New()
	router.POST("/auth/login", NewAuthHandler(mock).Login)

	w := perform(router, http.MethodPost, "/auth/login", []byte(`{"email":"dean@example.edu","password":"s3cret!"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dean@example.edu", mock.req.Email)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)

	w = perform(router, http.MethodPost, "/auth/login", []byte(`{"email":"dean@example.edu","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, http.MethodPost, "/auth/login", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
