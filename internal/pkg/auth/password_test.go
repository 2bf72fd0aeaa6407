package auth

import (
	"testing"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordManager() *PasswordManager {
	// Minimum cost keeps the bcrypt tests fast
	return NewPasswordManager(&config.Config{
		Security: config.SecurityConfig{BcryptCost: 4},
	})
}

func TestValidatePassword(t *testing.T) {
	pm := testPasswordManager()

	t.Run("accepts a strong password", func(t *testing.T) {
		assert.NoError(t, pm.ValidatePassword("Reader2024"))
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		cases := []struct {
			name     string
			password string
		}{
			{"too short", "Ab1"},
			{"no uppercase", "reader2024"},
			{"no lowercase", "READER2024"},
			{"no number", "ReaderPass"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Error(t, pm.ValidatePassword(tc.password))
			})
		}
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	pm := testPasswordManager()

	hash, err := pm.HashPassword("Reader2024")
	require.NoError(t, err)
	require.NotEqual(t, "Reader2024", hash)

	assert.NoError(t, pm.VerifyPassword("Reader2024", hash))
	assert.Error(t, pm.VerifyPassword("WrongPass1", hash))
}

func TestHashPasswordRejectsWeakInput(t *testing.T) {
	pm := testPasswordManager()

	_, err := pm.HashPassword("short")
	assert.Error(t, err)
}

func TestGenerateTemporaryPassword(t *testing.T) {
	pm := testPasswordManager()

	password, err := pm.GenerateTemporaryPassword()
	require.NoError(t, err)

	// Generated passwords must satisfy our own policy
	assert.NoError(t, pm.ValidatePassword(password))
}
