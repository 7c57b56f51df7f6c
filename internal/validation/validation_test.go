package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	got, err := Required("  Learn guitar \n", 100)
	require.NoError(t, err)
	assert.Equal(t, "Learn guitar", got)

	_, err = Required("   ", 100)
	assert.ErrorIs(t, err, ErrRequired)

	_, err = Required(strings.Repeat("a", 101), 100)
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = Required(strings.Repeat("a", 100), 100)
	assert.NoError(t, err)
}

func TestOptionalCountsRunesAfterNormalization(t *testing.T) {
	// An accented e typed as e + combining acute is two runes before NFC, one after.
	decomposed := strings.Repeat("e\u0301", 100)
	got, err := Optional(decomposed, 100)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("\u00e9", 100), got)

	got, err = Optional("", 500)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("abc"))
	assert.Error(t, ValidatePassword("123456"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
	assert.NoError(t, ValidatePassword("guitar-hero-42"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Ana <ana@example.com>"))
}
