package models

import "time"

// PasswordRecover is a single-use password reset token issued for an email.
type PasswordRecover struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Token      string    `gorm:"size:64;not null;uniqueIndex"`
	Email      string    `gorm:"size:255;not null;index"`
	Expiration time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

// Expired reports whether the token is no longer usable at now.
func (p *PasswordRecover) Expired(now time.Time) bool {
	return !now.Before(p.Expiration)
}
