package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordVerifies(t *testing.T) {
	hashed, err := HashPassword("Staff123!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$2a$10$"), "expected bcrypt cost 10, got %s", hashed)
	assert.True(t, VerifyPassword("Staff123!", hashed))
	assert.False(t, VerifyPassword("Staff123?", hashed))
	assert.False(t, VerifyPassword("", hashed))
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("same-input")
	require.NoError(t, err)
	second, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("same-input", first))
	assert.True(t, VerifyPassword("same-input", second))
}

func TestHashPasswordByteLimit(t *testing.T) {
	hashed, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, VerifyPassword(strings.Repeat("a", MaxPasswordBytes), hashed))

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 25 three-byte runes are 75 bytes
	_, err = HashPassword(strings.Repeat("€", 25))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	for _, digest := range []string{"", "invalid-format", "$2a$10$short", "$argon2id$v=19$m=1,t=1,p=1$x$y"} {
		assert.False(t, VerifyPassword("whatever", digest), digest)
	}
}

func TestPasswordStrength(t *testing.T) {
	cases := map[string]string{
		"":            StrengthWeak,
		"abc12":       StrengthWeak,
		"abcdef":      StrengthMedium,
		"abcdefg1":    StrengthMedium,
		"Abcdefg1":    StrengthStrong,
		"abcdef1!":    StrengthStrong,
		"NewPass123!": StrengthStrong,
		"Ab1!":        StrengthWeak,
		"Abc1!x":      StrengthMedium,
	}
	for password, want := range cases {
		assert.Equal(t, want, PasswordStrength(password), password)
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("BenchPassword1!")
	}
}
