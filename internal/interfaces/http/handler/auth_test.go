package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/commerceqb/gateway/internal/infrastructure/auth"
	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of commerce.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *commerce.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*commerce.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *commerce.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "gateway-test",
	})
}

func newAuthRouter(users commerce.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(users, newTestJWTService(), zap.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postLogin(t *testing.T, r *gin.Engine, body LoginRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	user, err := commerce.NewUser("admin", "correct-horse")
	require.NoError(t, err)

	t.Run("valid credentials mint a token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "admin").Return(user, nil)

		w := postLogin(t, newAuthRouter(users), LoginRequest{Username: "admin", Password: "correct-horse"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool          `json:"success"`
			Data    LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.AccessToken)
		assert.Equal(t, "Bearer", resp.Data.TokenType)
		assert.Equal(t, "admin", resp.Data.Username)

		claims, err := newTestJWTService().ValidateToken(resp.Data.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "admin").Return(user, nil)

		w := postLogin(t, newAuthRouter(users), LoginRequest{Username: "admin", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		w := postLogin(t, newAuthRouter(users), LoginRequest{Username: "ghost", Password: "whatever9"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated user is rejected", func(t *testing.T) {
		blocked, err := commerce.NewUser("blocked", "correct-horse")
		require.NoError(t, err)
		blocked.Deactivate()

		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, "blocked").Return(blocked, nil)

		w := postLogin(t, newAuthRouter(users), LoginRequest{Username: "blocked", Password: "correct-horse"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields are a bad request", func(t *testing.T) {
		users := new(MockUserRepository)
		w := postLogin(t, newAuthRouter(users), LoginRequest{Username: "admin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
