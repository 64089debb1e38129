package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestNewTokenRoundTrip(t *testing.T) {
	token, err := NewToken("user-42", secret, 30*time.Minute)
	require.NoError(t, err)

	sub, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := NewToken("user-42", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewToken("user-42", secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenTampered(t *testing.T) {
	token, err := NewToken("user-42", secret, time.Minute)
	require.NoError(t, err)

	forged, err := NewToken("user-43", "attacker", time.Minute)
	require.NoError(t, err)

	// keep the original signature, swap in the forged payload
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = ParseToken(tampered, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsNoneAlg(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(unsigned, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenWithoutSubject(t *testing.T) {
	token, err := NewToken("", secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenWithoutExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "user-42",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(signed, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
