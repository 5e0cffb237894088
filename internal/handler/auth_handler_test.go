package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/middleware"
	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	"github.com/target-saas/study-tracker-api/pkg/config"
)

type stubAuthRepo struct {
	users  map[string]models.User
	tokens map[string]models.RefreshToken
}

func (m *stubAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *stubAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubAuthRepo) Count(ctx context.Context) (int, error) { return len(m.users), nil }

func (m *stubAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.users[user.ID] = *user
	return nil
}

func (m *stubAuthRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (m *stubAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, needsChange bool) error {
	u := m.users[id]
	u.PasswordHash = passwordHash
	u.NeedsPasswordChange = needsChange
	m.users[id] = u
	return nil
}

func (m *stubAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]models.RefreshToken)
	}
	m.tokens[token.Token] = *token
	return nil
}

func (m *stubAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	return nil
}

func (m *stubAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func newAuthRouter(repo *stubAuthRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.JWTConfig{Secret: "test_secret", Expiration: time.Hour, RefreshExpiration: 24 * time.Hour, Issuer: "test"}
	h := NewAuthHandler(service.NewAuthService(repo, cfg, zap.NewNop()))

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", middleware.JWT(cfg.Secret), h.Me)
	return r
}

func TestAuthHandlerRegister(t *testing.T) {
	r := newAuthRouter(&stubAuthRepo{})

	body, _ := json.Marshal(models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	// The very first account is an approved admin.
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
	assert.Contains(t, w.Body.String(), `"is_approved":true`)
}

func TestAuthHandlerRegisterInvalidBody(t *testing.T) {
	r := newAuthRouter(&stubAuthRepo{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerLoginAndMe(t *testing.T) {
	repo := &stubAuthRepo{}
	r := newAuthRouter(repo)

	body, _ := json.Marshal(models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body, _ = json.Marshal(models.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	repo := &stubAuthRepo{}
	r := newAuthRouter(repo)

	body, _ := json.Marshal(models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body, _ = json.Marshal(models.LoginRequest{Email: "ada@example.com", Password: "wrong12"})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
