package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novabank/payportal/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken("customer-42", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "customer-42", claims.Subject)
	assert.Equal(t, "customer", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := auth.NewService("secret-a", time.Hour)
	verifier := auth.NewService("secret-b", time.Hour)

	token, err := issuer.GenerateToken("staff-1", "staff")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	svc := auth.NewService("test-secret", -time.Minute)

	token, err := svc.GenerateToken("staff-1", "staff")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, auth.CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, auth.CheckPassword(hash, "wrong-password"))
}
