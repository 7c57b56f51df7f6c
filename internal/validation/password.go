package validation

import (
	"errors"
	"strings"
)

// ValidatePassword checks the password rules used at registration.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	// bcrypt silently truncates anything past 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	commonPasswords := []string{
		"123456", "1234567", "12345678", "password", "qwerty",
		"azerty", "letmein", "welcome", "motdepasse", "soleil",
	}

	for _, common := range commonPasswords {
		if lower == common {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
