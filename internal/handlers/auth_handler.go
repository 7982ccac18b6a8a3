package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/services"
)

const (
	grantTypePassword     = "password"
	grantTypeRefreshToken = "refresh_token"
)

// AuthHandler handles token issuing and password recovery requests
type AuthHandler struct {
	authService services.AuthServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TokenRequest is the form body of the token endpoint
type TokenRequest struct {
	GrantType    string `form:"grant_type" binding:"required"`
	Username     string `form:"username"`
	Password     string `form:"password"`
	RefreshToken string `form:"refresh_token"`
}

// Token issues an access and refresh token pair
// @Summary     Obtain tokens
// @Description OAuth2 token endpoint supporting the password and refresh_token grants. The client authenticates with HTTP Basic.
// @Tags        auth
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Security    BasicAuth
// @Param       grant_type    formData string true  "password or refresh_token"
// @Param       username      formData string false "User email (password grant)"
// @Param       password      formData string false "User password (password grant)"
// @Param       refresh_token formData string false "Refresh token (refresh_token grant)"
// @Success     200 {object} dto.TokenDTO "Token pair"
// @Failure     400 {object} ErrorResponse "Unsupported grant type"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /oauth2/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var (
		token *dto.TokenDTO
		err   error
	)
	switch req.GrantType {
	case grantTypePassword:
		token, err = h.authService.PasswordGrant(c.Request.Context(), req.Username, req.Password)
	case grantTypeRefreshToken:
		if req.RefreshToken == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "refresh_token is required"))
			return
		}
		token, err = h.authService.RefreshGrant(c.Request.Context(), req.RefreshToken)
	default:
		respondWithError(c, apperrors.ErrUnsupportedGrantType)
		return
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, token)
}

// SendRecoverToken emails a password recovery link
// @Summary     Request a password recovery email
// @Tags        auth
// @Accept      json
// @Param       request body dto.EmailDTO true "Recipient address in to (or email)"
// @Success     204 "Recovery email queued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Email not found"
// @Router      /auth/recover-token [post]
func (h *AuthHandler) SendRecoverToken(c *gin.Context) {
	var req dto.EmailDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	address := req.Address()
	if address == "" {
		respondWithError(c, apperrors.WithFields(
			apperrors.WithMessage(apperrors.ErrInvalidInput, "Validation error"),
			apperrors.FieldMessage{FieldName: "to", Message: "Required field"},
		))
		return
	}

	if err := h.authService.CreateRecoverToken(c.Request.Context(), address); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveNewPassword resets a password with a recovery token
// @Summary     Reset password
// @Tags        auth
// @Accept      json
// @Param       request body dto.NewPasswordDTO true "Token and new password"
// @Success     204 "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Invalid token"
// @Router      /auth/new-password [put]
func (h *AuthHandler) SaveNewPassword(c *gin.Context) {
	var req dto.NewPasswordDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if err := h.authService.SaveNewPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
