package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-do-not-use"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, "joao", 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "joao", subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, "joao", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueToken_NonPositiveTTLFallsBack(t *testing.T) {
	token, err := IssueToken(testSecret, "joao", -time.Minute)
	require.NoError(t, err)

	subject, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "joao", subject)
}

func TestParseToken_Expired(t *testing.T) {
	now := time.Now().Add(-2 * time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "joao",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(testSecret, "")
	require.ErrorIs(t, err, ErrInvalidToken)
}
