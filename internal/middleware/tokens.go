package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"financeiro/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	issuer           = "financeiro-api"
)

// JWTClaims represents the claims in the JWT. Subject is the user's email.
type JWTClaims struct {
	UserID      int64    `json:"user_id"`
	Authorities []string `json:"authorities,omitempty"`
	TokenType   string   `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access and refresh tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the lifetime of access tokens.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// GenerateAccessToken generates a short-lived JWT access token for a user.
// The user's roles must be loaded.
func (m *TokenManager) GenerateAccessToken(user *models.User) (string, error) {
	return m.sign(user, tokenTypeAccess, m.accessTTL, user.Authorities())
}

// GenerateRefreshToken generates a long-lived JWT refresh token for a user.
func (m *TokenManager) GenerateRefreshToken(user *models.User) (string, error) {
	return m.sign(user, tokenTypeRefresh, m.refreshTTL, nil)
}

func (m *TokenManager) sign(user *models.User, tokenType string, ttl time.Duration, authorities []string) (string, error) {
	now := m.now()
	claims := &JWTClaims{
		UserID:      user.ID,
		Authorities: authorities,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.Email,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) parse(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ParseAccessToken validates an access token and returns its claims.
// Refresh tokens are rejected.
func (m *TokenManager) ParseAccessToken(tokenString string) (*JWTClaims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token JWT.
// Returns the claims if valid, or an error if the token is invalid,
// expired, or not a refresh token.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return claims, nil
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
