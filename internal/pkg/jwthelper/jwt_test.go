package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("secret")

	token, err := GenerateToken(key, Subject{UserID: 42, Name: "Maddy"}, "curl/8.0")
	require.NoError(t, err)

	id, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	claims, err := ParseClaims(key, token)
	require.NoError(t, err)
	assert.Equal(t, "Maddy", claims.Name)
	assert.Equal(t, "curl/8.0", claims.UserAgent)
}

func TestParseToken_Invalid(t *testing.T) {
	token, err := GenerateToken([]byte("secret"), Subject{UserID: 42}, "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   string
		token string
	}{
		{"wrong key", "other", token},
		{"garbage", "secret", "not.a.token"},
		{"empty", "secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken([]byte(tt.key), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
