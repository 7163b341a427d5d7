package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT("secret", "user-1", "gordon", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "gordon", claims.Username)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", "user-1", "gordon", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT("other-secret", token)
	assert.Error(t, err)
}

func TestValidateExpired(t *testing.T) {
	token, err := GenerateJWT("secret", "user-1", "gordon", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT("secret", token)
	assert.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateJWT("secret", "not-a-token")
	assert.Error(t, err)
}
