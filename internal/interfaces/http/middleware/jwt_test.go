package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/commerceqb/gateway/internal/infrastructure/auth"
	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTTestRouter(tokens *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetJWTUsername(c)})
	})
	return r
}

func newJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: expiration,
		Issuer:     "gateway-test",
	})
}

func getProtected(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := newJWTService(time.Hour)
	r := newJWTTestRouter(tokens)

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		token, _, err := tokens.GenerateToken(uuid.New(), "admin")
		require.NoError(t, err)

		w := getProtected(r, BearerPrefix+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"admin"`)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := getProtected(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer header is rejected", func(t *testing.T) {
		w := getProtected(r, "Basic YWRtaW46cGFzcw==")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		w := getProtected(r, BearerPrefix+"not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("expired token is rejected with its own code", func(t *testing.T) {
		expired := newJWTService(-time.Minute)
		token, _, err := expired.GenerateToken(uuid.New(), "admin")
		require.NoError(t, err)

		w := getProtected(newJWTTestRouter(expired), BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:     "other-secret",
			Expiration: time.Hour,
			Issuer:     "gateway-test",
		})
		token, _, err := other.GenerateToken(uuid.New(), "admin")
		require.NoError(t, err)

		w := getProtected(r, BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
