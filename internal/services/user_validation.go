package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

// normalizeEmail lowercases and trims an address before it is stored or
// compared.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const (
	minPasswordChars = 6
	// bcrypt only accepts inputs up to this many bytes.
	maxPasswordBytes = 72
)

// validatePassword applies the length rules for a new password. The minimum
// counts characters; the maximum counts bytes.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordChars {
		return apperrors.WithFields(apperrors.ErrInvalidInput,
			apperrors.FieldMessage{FieldName: "password", Message: "must be at least 6 characters"})
	}
	if len(password) > maxPasswordBytes {
		return apperrors.WithFields(apperrors.ErrInvalidInput,
			apperrors.FieldMessage{FieldName: "password", Message: "must be at most 72 bytes"})
	}
	return nil
}

// hashPassword validates and bcrypt-hashes a new password.
func hashPassword(password string, cost int) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "password is too long")
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(hash), nil
}

// validateNewEmail rejects an address already held by another user. It is
// applied on insert only.
func validateNewEmail(ctx context.Context, users repository.Store[models.User], email string) error {
	count, err := users.Count(ctx, repository.Where("email = ?", email))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateEmail
	}
	return nil
}
