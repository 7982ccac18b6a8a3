package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/logger"
	"financeiro/internal/mail"
	"financeiro/internal/middleware"
	"financeiro/internal/models"
	"financeiro/internal/repository"
	"financeiro/internal/uuid"
)

const (
	tokenTypeBearer = "bearer"
	tokenScope      = "read write"
)

// RecoverConfig controls the password recovery flow.
type RecoverConfig struct {
	// URI is the frontend page the token is appended to.
	URI      string
	TokenTTL time.Duration
}

// authService issues tokens and runs the password recovery flow.
type authService struct {
	tx         *repository.Transactor
	users      UserServicer
	userStore  repository.Store[models.User]
	recovers   repository.Store[models.PasswordRecover]
	tokens     *middleware.TokenManager
	mailer     mail.Mailer
	recoverCfg RecoverConfig
	now        func() time.Time
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(st *Stores, users UserServicer, tokens *middleware.TokenManager, mailer mail.Mailer, cfg RecoverConfig) AuthServicer {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * time.Minute
	}
	return &authService{
		tx:         st.Tx,
		users:      users,
		userStore:  st.Users,
		recovers:   st.PasswordRecovers,
		tokens:     tokens,
		mailer:     mailer,
		recoverCfg: cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PasswordGrant authenticates with email and password and issues a token
// pair.
func (s *authService) PasswordGrant(ctx context.Context, username, password string) (*dto.TokenDTO, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// RefreshGrant exchanges the user's current refresh token for a new pair.
// Each refresh token can be used once.
func (s *authService) RefreshGrant(ctx context.Context, refreshToken string) (*dto.TokenDTO, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	presented := middleware.HashToken(refreshToken)
	if user.RefreshTokenHash == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshTokenHash)) != 1 {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "Refresh token is no longer valid")
	}
	return s.issue(ctx, user)
}

func (s *authService) issue(ctx context.Context, user *models.User) (*dto.TokenDTO, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.users.StoreRefreshTokenHash(ctx, user.ID, middleware.HashToken(refresh)); err != nil {
		return nil, err
	}

	return &dto.TokenDTO{
		AccessToken:  access,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		RefreshToken: refresh,
		Scope:        tokenScope,
	}, nil
}

// CreateRecoverToken stores a recovery token for email and queues the
// recovery message.
func (s *authService) CreateRecoverToken(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid email address")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrEmailNotFound
		}
		return err
	}

	entry := &models.PasswordRecover{
		Token:      uuid.NewToken(),
		Email:      user.Email,
		Expiration: s.now().Add(s.recoverCfg.TokenTTL),
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.recovers.Save(ctx, entry); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	msg, err := mail.RenderRecoverPassword(user.Email, mail.RecoverPasswordData{
		Name:    user.FirstName,
		Link:    s.recoverCfg.URI + entry.Token,
		Minutes: int(s.recoverCfg.TokenTTL.Minutes()),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.mailer.Enqueue(msg); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.FromContext(ctx).Infow("Password recovery requested", "user_id", user.ID)
	return nil
}

// SaveNewPassword sets a new password for the owner of a valid recovery
// token. Every token issued for that email is consumed, and any refresh
// token is revoked.
func (s *authService) SaveNewPassword(ctx context.Context, token, newPassword string) error {
	hash, err := hashPassword(newPassword, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var userID int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.recovers.FindOne(ctx, repository.Where("token = ?", strings.TrimSpace(token)))
		if err != nil {
			return lookupError(err, apperrors.ErrRecoverTokenNotFound)
		}
		if entry.Expired(s.now()) {
			return apperrors.ErrRecoverTokenNotFound
		}

		user, err := s.userStore.FindOne(ctx, repository.Where("email = ?", entry.Email))
		if err != nil {
			return lookupError(err, apperrors.ErrEmailNotFound)
		}
		userID = user.ID

		if err := s.userStore.Update(ctx, user.ID, map[string]any{
			"password":           hash,
			"refresh_token_hash": "",
		}); err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}
		if _, err := s.recovers.DeleteWhere(ctx, repository.Where("email = ?", entry.Email)); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Infow("Password reset", "user_id", userID)
	return nil
}

// PurgeExpiredTokens deletes recovery tokens past their expiration.
func (s *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	var purged int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		purged, err = s.recovers.DeleteWhere(ctx, repository.Where("expiration <= ?", s.now()))
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	return purged, err
}
