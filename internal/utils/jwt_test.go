package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(7, "admin@example.com")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Correo)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	SetJWTSecret("secret-a")
	token, err := GenerateJWT(1, "a@example.com")
	require.NoError(t, err)

	SetJWTSecret("secret-b")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	SetJWTSecret("test-secret")
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}
