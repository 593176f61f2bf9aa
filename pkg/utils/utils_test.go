package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT(secret, "sess-1", "u-1", "admin", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWT_Rejects(t *testing.T) {
	expired, err := GenerateJWT(secret, "sess-1", "u-1", "student", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = ValidateJWT(secret, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	good, err := GenerateJWT(secret, "sess-1", "u-1", "student", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = ValidateJWT([]byte("other"), good)
	assert.Error(t, err)

	noSession, err := GenerateJWT(secret, "", "u-1", "student", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = ValidateJWT(secret, noSession)
	assert.Error(t, err)

	_, err = GenerateJWT(nil, "s", "u", "student", time.Time{})
	assert.Error(t, err)
}
