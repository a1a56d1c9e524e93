package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/fooddelivery/internal/errors"
)

const secret = "test-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	c := context.Background()
	userId := uuid.New()

	signed, err := IssueToken(c, secret, userId, time.Now())
	require.NoError(t, err)

	token, err := VerifyToken(c, secret, signed)
	require.NoError(t, err)

	actual, err := UserIdFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, userId, actual)
}

func TestVerifyToken(t *testing.T) {
	c := context.Background()
	userId := uuid.New()

	expired, err := IssueToken(c, secret, userId, time.Now().Add(-2*TokenLifetime))
	require.NoError(t, err)

	wrongSecret, err := IssueToken(c, "other-secret", userId, time.Now())
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: userId.String(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "given expired token should return invalid token", token: expired},
		{name: "given token signed with other secret should return invalid token", token: wrongSecret},
		{name: "given token without expiry should return invalid token", token: noExpiry},
		{name: "given garbage should return invalid token", token: "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(c, secret, tt.token)
			assert.ErrorIs(t, err, inErrors.ErrTokenInvalid)
		})
	}
}

func TestUserIdFromContext(t *testing.T) {
	_, err := UserIdFromContext(context.Background())
	assert.ErrorIs(t, err, inErrors.ErrUnauthorized)

	userId := uuid.New()
	actual, err := UserIdFromContext(AttachUserIdToContext(context.Background(), userId))
	require.NoError(t, err)
	assert.Equal(t, userId, actual)
}

func TestClaims(t *testing.T) {
	c := context.Background()
	now := time.Now().Truncate(time.Second)

	first, err := IssueToken(c, secret, uuid.New(), now)
	require.NoError(t, err)
	second, err := IssueToken(c, secret, uuid.New(), now)
	require.NoError(t, err)

	firstToken, err := VerifyToken(c, secret, first)
	require.NoError(t, err)
	firstClaims, err := Claims(firstToken)
	require.NoError(t, err)
	secondToken, err := VerifyToken(c, secret, second)
	require.NoError(t, err)
	secondClaims, err := Claims(secondToken)
	require.NoError(t, err)

	assert.NotEmpty(t, firstClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	assert.True(t, now.Add(TokenLifetime).Equal(firstClaims.ExpiresAt.Time))
}
