package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/fooddelivery/gateway/pkg/request"
	"github.com/Alturino/fooddelivery/internal/auth"
	inErrors "github.com/Alturino/fooddelivery/internal/errors"
	"github.com/Alturino/fooddelivery/internal/repository"
	"github.com/Alturino/fooddelivery/internal/testutil"
)

const secret = "gateway-secret"

func TestUserService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	svc := NewUserService(repository.New(pool), secret)

	var registeredToken string
	t.Run("given new email should register and issue token", func(t *testing.T) {
		session, err := svc.Register(c, request.Register{Email: " Carol@Example.com ", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "carol@example.com", session.User.Email)
		assert.WithinDuration(t, time.Now(), session.User.CreatedAt, time.Minute)

		token, err := auth.VerifyToken(c, secret, session.Token)
		require.NoError(t, err)
		userId, err := auth.UserIdFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, userId)
		registeredToken = session.Token

		var hash string
		require.NoError(t, pool.QueryRow(c, "SELECT password_hash FROM users WHERE id = $1", userId).Scan(&hash))
		assert.NotEqual(t, "secret", hash)
	})

	t.Run("given existing email in other case should return email exist", func(t *testing.T) {
		_, err := svc.Register(c, request.Register{Email: "CAROL@example.com", Password: "other-secret"})
		assert.ErrorIs(t, err, inErrors.ErrEmailExist)
	})

	t.Run("given right password should login with fresh token", func(t *testing.T) {
		session, err := svc.Login(c, request.Login{Email: "carol@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "carol@example.com", session.User.Email)
		assert.NotEqual(t, registeredToken, session.Token)
	})

	t.Run("given wrong password should return invalid credentials", func(t *testing.T) {
		_, err := svc.Login(c, request.Login{Email: "carol@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, inErrors.ErrInvalidCredentials)
	})

	t.Run("given unknown email should return invalid credentials", func(t *testing.T) {
		_, err := svc.Login(c, request.Login{Email: "nobody@example.com", Password: "secret"})
		assert.ErrorIs(t, err, inErrors.ErrInvalidCredentials)
	})

	t.Run("given seeded user should find it", func(t *testing.T) {
		user, err := svc.FindUser(c, testutil.Alice)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})
}

func TestSessionService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c := context.Background()
	cache := testutil.StartRedis(t, c)
	svc := NewSessionService(cache)

	t.Run("given unknown token should not be revoked", func(t *testing.T) {
		revoked, err := svc.IsRevoked(c, "fresh-token")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("given revoked token should be revoked until expiry", func(t *testing.T) {
		require.NoError(t, svc.Revoke(c, "old-token", time.Now().Add(10*time.Minute)))

		revoked, err := svc.IsRevoked(c, "old-token")
		require.NoError(t, err)
		assert.True(t, revoked)

		ttl, err := cache.TTL(c, revokedKey("old-token")).Result()
		require.NoError(t, err)
		assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)
	})

	t.Run("given expired token should store nothing", func(t *testing.T) {
		require.NoError(t, svc.Revoke(c, "expired-token", time.Now().Add(-time.Minute)))

		n, err := cache.Exists(c, revokedKey("expired-token")).Result()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
