package utils

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("admin-1", "admin@example.com", "admin")
	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", token)

	claims, err := ValidateJWT(token)
	assert.Equal(t, nil, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ValidateJWT("not-a-token")
	assert.NotEqual(t, nil, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateJWT("admin-1", "admin@example.com", "admin")
	assert.Equal(t, nil, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = ValidateJWT(token)
	assert.NotEqual(t, nil, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("admin-1", "admin@example.com", "admin")
	assert.NotEqual(t, nil, err)
}
