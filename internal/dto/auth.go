package dto

import "strings"

// EmailDTO is the body of a password recovery request. The web client sends
// the address as "to" together with a subject and body it composed; the
// server renders its own message and only the address is used.
type EmailDTO struct {
	To      string `json:"to"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Address returns the recipient, preferring "to" over "email".
func (e EmailDTO) Address() string {
	if to := strings.TrimSpace(e.To); to != "" {
		return to
	}
	return strings.TrimSpace(e.Email)
}

// NewPasswordDTO is the body of a password reset.
type NewPasswordDTO struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// TokenDTO is the OAuth2 token endpoint response.
type TokenDTO struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}
