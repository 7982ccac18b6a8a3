package services

import (
	"context"

	"financeiro/internal/dto"
	"financeiro/internal/models"
	"financeiro/internal/pagination"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	FindAll(ctx context.Context) ([]dto.CategoryDTO, error)
	FindByID(ctx context.Context, id int64) (*dto.CategoryDTO, error)
	Insert(ctx context.Context, in dto.CategoryDTO) (*dto.CategoryDTO, error)
	Update(ctx context.Context, id int64, in dto.CategoryDTO) (*dto.CategoryDTO, error)
	Delete(ctx context.Context, id int64) error
}

// MemberServicer defines the contract for household member business logic.
type MemberServicer interface {
	FindAll(ctx context.Context) ([]dto.MemberDTO, error)
	FindByID(ctx context.Context, id int64) (*dto.MemberDTO, error)
	Insert(ctx context.Context, in dto.MemberDTO) (*dto.MemberDTO, error)
	Update(ctx context.Context, id int64, in dto.MemberDTO) (*dto.MemberDTO, error)
	Delete(ctx context.Context, id int64) error
}

// RoleServicer defines the contract for role-related business logic.
type RoleServicer interface {
	FindAll(ctx context.Context) ([]dto.RoleDTO, error)
	FindByID(ctx context.Context, id int64) (*dto.RoleDTO, error)
	Insert(ctx context.Context, in dto.RoleDTO) (*dto.RoleDTO, error)
	Update(ctx context.Context, id int64, in dto.RoleDTO) (*dto.RoleDTO, error)
	Delete(ctx context.Context, id int64) error
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	FindAll(ctx context.Context, page pagination.PageRequest) (*pagination.Page[dto.UserDTO], error)
	FindByID(ctx context.Context, id int64) (*dto.UserDTO, error)
	Insert(ctx context.Context, in dto.UserInsertDTO) (*dto.UserDTO, error)
	Update(ctx context.Context, id int64, in dto.UserUpdateDTO) (*dto.UserDTO, error)
	Delete(ctx context.Context, id int64) error

	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Authorities(ctx context.Context, id int64) ([]string, error)
	StoreRefreshTokenHash(ctx context.Context, id int64, tokenHash string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	From     *models.Date
	To       *models.Date
	MemberID *int64
	FuelOnly bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	FindAll(ctx context.Context, page pagination.PageRequest) (*pagination.Page[dto.TransactionDTO], error)
	FindFuel(ctx context.Context, page pagination.PageRequest) (*pagination.Page[dto.TransactionDTO], error)
	FindByID(ctx context.Context, id int64) (*dto.TransactionDTO, error)
	Insert(ctx context.Context, in dto.TransactionDTO) (*dto.TransactionDTO, error)
	Update(ctx context.Context, id int64, in dto.TransactionDTO) (*dto.TransactionDTO, error)
	Delete(ctx context.Context, id int64) error
}

// AuthServicer defines the contract for token issuing and password recovery.
type AuthServicer interface {
	PasswordGrant(ctx context.Context, username, password string) (*dto.TokenDTO, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*dto.TokenDTO, error)
	CreateRecoverToken(ctx context.Context, email string) error
	SaveNewPassword(ctx context.Context, token, newPassword string) error
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// ReportFilter selects the window of a summary report.
type ReportFilter struct {
	MemberID *int64
	Months   int
}

// ReportServicer defines the contract for dashboard reports.
type ReportServicer interface {
	Summary(ctx context.Context, filter ReportFilter) (*dto.SummaryDTO, error)
}

// ExportServicer defines the contract for spreadsheet exports.
type ExportServicer interface {
	Transactions(ctx context.Context, filter TransactionFilter) ([]byte, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID int64, action, resourceType string, resourceID int64, ipAddress string, changes map[string]interface{})
}
