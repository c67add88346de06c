package core

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 8

// CredentialValidator checks email/password acceptability for registration.
// It is read-only: its uniqueness check is an early exit, the real guarantee
// is the store's unique constraint on email.
type CredentialValidator struct {
	users UserStorage
}

func NewCredentialValidator(users UserStorage) *CredentialValidator {
	return &CredentialValidator{users: users}
}

// Validate applies the registration rules in a fixed order, first failure
// wins: blank email, blank password, email taken, weak password.
func (v *CredentialValidator) Validate(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(password) == "" {
		return ErrPasswordRequired
	}

	existing, err := v.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return mapStoreErr(err)
	}
	if existing != nil {
		return ErrUserExists
	}

	return CheckPasswordStrength(password)
}

// CheckPasswordStrength enforces the password policy: at least 8 characters
// containing an uppercase letter, a lowercase letter, and a digit. No symbol
// requirement.
func CheckPasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
