package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "financeiro/internal/errors"
	"financeiro/internal/logger"
	"financeiro/internal/middleware"
	"financeiro/internal/models"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Fields  []apperrors.FieldMessage `json:"fields,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (int64, error) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	id, ok := userID.(int64)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return id, nil
}

// parsePathID parses a positive integer path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseQueryID parses an optional positive integer query parameter.
func parseQueryID(c *gin.Context, name string) (*int64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+name)
	}
	return &id, nil
}

// parseQueryDate parses an optional YYYY-MM-DD query parameter.
func parseQueryDate(c *gin.Context, name string) (*models.Date, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid %s format, use YYYY-MM-DD", name))
	}
	return &d, nil
}

// bindError converts a binding failure into INVALID_INPUT, listing the
// offending fields when the failure came from validation.
func bindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	fields := make([]apperrors.FieldMessage, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldMessage{
			FieldName: fe.Field(),
			Message:   fieldMessage(fe),
		})
	}
	return apperrors.WithFields(apperrors.WithMessage(apperrors.ErrInvalidInput, "Validation error"), fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required field"
	case "email":
		return "Invalid email"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "transaction_type":
		return "Must be INCOME or EXPENSE"
	case "authority":
		return "Must start with ROLE_ followed by uppercase letters"
	}
	return "Invalid value"
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		}})
		return
	}

	log.Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}
