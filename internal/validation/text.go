package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrRequired = errors.New("is required")
	ErrTooLong  = errors.New("is too long")
)

// Normalize trims surrounding whitespace and composes the string to NFC so
// that length limits count what a user sees, not how it was typed.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Required normalizes s and checks it is non-empty and at most max runes.
func Required(s string, max int) (string, error) {
	s = Normalize(s)
	if s == "" {
		return "", ErrRequired
	}
	return Optional(s, max)
}

// Optional normalizes s and checks it is at most max runes. Empty is allowed.
func Optional(s string, max int) (string, error) {
	s = Normalize(s)
	if n := utf8.RuneCountInString(s); n > max {
		return "", fmt.Errorf("%w (max %d characters, got %d)", ErrTooLong, max, n)
	}
	return s, nil
}
