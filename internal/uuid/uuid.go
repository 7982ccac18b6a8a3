// Package uuid generates the identifiers used for request correlation and
// one-time tokens.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7, suitable for correlating log lines.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// NewToken returns a random UUIDv4 for use as an unguessable one-time token.
func NewToken() string {
	return googleuuid.NewString()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	_, err := googleuuid.Parse(s)
	return err == nil
}
