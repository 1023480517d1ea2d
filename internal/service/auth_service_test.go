package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) (*AuthService, *memStore, *memTokens) {
	t.Helper()
	store := newMemStore()
	tokens := newMemTokens()
	svc := NewAuthService(store, tokens, testSecret, time.Hour, zap.NewNop())
	svc.bcryptCost = bcrypt.MinCost
	require.NoError(t, svc.SetPassword(context.Background(), "tutor", "s3cret"))
	return svc, store, tokens
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, _, _ := newAuthService(t)

		token, err := svc.Login(ctx, "tutor", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token.Value)
		assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

		claims, err := svc.Verify(ctx, token.Value)
		require.NoError(t, err)
		assert.Equal(t, "tutor", claims.Username)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := newAuthService(t)

		_, err := svc.Login(ctx, "tutor", "R2D2#")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown admin", func(t *testing.T) {
		svc, _, _ := newAuthService(t)

		_, err := svc.Login(ctx, "nobody", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := newAuthService(t)

		_, err := svc.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		svc, _, _ := newAuthService(t)
		claims := AdminClaims{
			Username: "tutor",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ID:        "x",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)

		_, err = svc.Verify(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, _, _ := newAuthService(t)
		claims := AdminClaims{
			Username: "tutor",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ID:        "x",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Verify(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("revoked after logout", func(t *testing.T) {
		svc, _, tokens := newAuthService(t)
		token, err := svc.Login(ctx, "tutor", "s3cret")
		require.NoError(t, err)
		claims, err := svc.Verify(ctx, token.Value)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, claims))
		assert.Contains(t, tokens.revoked, claims.ID)

		_, err = svc.Verify(ctx, token.Value)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAuthService(t)

	// Существующий пароль не перезаписывается
	require.NoError(t, svc.EnsureAdmin(ctx, "tutor", "changed"))
	_, err := svc.Login(ctx, "tutor", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmin(ctx, "second", "pw"))
	admin, err := store.GetByUsername(ctx, "second")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.NotEqual(t, "pw", admin.PasswordHash)

	assert.ErrorIs(t, svc.SetPassword(ctx, " ", "pw"), ErrInvalidCredentials)
}
