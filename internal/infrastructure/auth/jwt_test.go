package auth

import (
	"testing"
	"time"

	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: expiration,
		Issuer:     "qb-export-gateway-test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(userID, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "qb-export-gateway-test", claims.Issuer)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestService(time.Hour)
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		token, _, err := newTestService(time.Hour).GenerateToken(uuid.New(), "admin")
		require.NoError(t, err)

		other := NewJWTService(config.JWTConfig{Secret: "other", Expiration: time.Hour, Issuer: "x"})
		_, err = other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := newTestService(-time.Minute)
		token, _, err := svc.GenerateToken(uuid.New(), "admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
