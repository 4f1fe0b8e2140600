package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("ana@example.com", "Ana", "correct-horse-battery")
	require.NoError(t, err)

	assert.NotEqual(t, "", user.ID.String())
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserValidate(t *testing.T) {
	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewUser("", "Ana", "correct-horse-battery")
		assert.ErrorIs(t, err, ErrEmptyUserEmail)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("ana@example.com", "", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects password over bcrypt limit", func(t *testing.T) {
		_, err := NewUser("ana@example.com", "", strings.Repeat("x", MaxPasswordLength+1))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("skips password check when only hash is present", func(t *testing.T) {
		user, err := NewUser("ana@example.com", "", "correct-horse-battery")
		require.NoError(t, err)
		user.Password = ""
		user.HashedPassword = "$2a$10$hash"
		assert.NoError(t, user.Validate())
	})
}
