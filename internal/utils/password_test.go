package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 70)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, bcrypt.MinCost)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.NotEqual(t, tt.password, hash)

			// Same input twice must not produce the same hash: the salt is
			// random per call.
			hash2, err := HashPassword(tt.password, bcrypt.MinCost)
			require.NoError(t, err)
			require.NotEqual(t, hash, hash2)

			require.True(t, VerifyPassword(hash, tt.password))
			require.True(t, VerifyPassword(hash2, tt.password))
		})
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	require.False(t, VerifyPassword(hash, "battery staple"))
	require.False(t, VerifyPassword(hash, ""))
	require.False(t, VerifyPassword(hash, "correct horse "))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	// Malformed stored hashes must read as "no match", never panic or error.
	for _, malformed := range []string{"", "not-a-hash", "$2a$banana", "plaintext-password"} {
		require.False(t, VerifyPassword(malformed, "anything"))
	}
}
