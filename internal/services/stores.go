package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

// Stores bundles the repositories and transactor the services run on.
type Stores struct {
	Tx               *repository.Transactor
	Users            repository.Store[models.User]
	Roles            repository.Store[models.Role]
	Members          repository.Store[models.Member]
	Categories       repository.Store[models.Category]
	Transactions     repository.Store[models.Transaction]
	FuelData         repository.Store[models.FuelData]
	PasswordRecovers repository.Store[models.PasswordRecover]
	AuditLogs        repository.Store[models.AuditLog]
}

// NewStores creates GORM-backed stores over db.
func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Tx:               repository.NewTransactor(db),
		Users:            repository.NewStore[models.User](db),
		Roles:            repository.NewStore[models.Role](db),
		Members:          repository.NewStore[models.Member](db),
		Categories:       repository.NewStore[models.Category](db),
		Transactions:     repository.NewStore[models.Transaction](db),
		FuelData:         repository.NewStore[models.FuelData](db),
		PasswordRecovers: repository.NewStore[models.PasswordRecover](db),
		AuditLogs:        repository.NewStore[models.AuditLog](db),
	}
}

// lookupError maps a store read failure to notFound or an internal error.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// writeError maps a store write failure. Integrity violations surface as
// database errors; anything already an AppError passes through.
func writeError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if repository.IsForeignKeyViolation(err) {
		return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrDatabase, "Resource is still referenced"), err)
	}
	return apperrors.Wrap(apperrors.ErrDatabase, err)
}

// mustExist returns notFound when no entity with id exists in store.
func mustExist[T any](ctx context.Context, store repository.Store[T], id int64, notFound *apperrors.AppError) error {
	exists, err := store.Exists(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !exists {
		return notFound
	}
	return nil
}
