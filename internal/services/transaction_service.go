package services

import (
	"context"
	"strings"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/pagination"
	"financeiro/internal/repository"
)

const fuelExistsClause = "EXISTS (SELECT 1 FROM fuel_data WHERE fuel_data.transaction_id = transactions.id)"

var transactionSortColumns = map[string]string{
	"id":              "id",
	"date":            "date",
	"amount":          "amount",
	"description":     "description",
	"transactionType": "transaction_type",
}

var defaultTransactionOrder = []pagination.Order{
	{Column: "date", Desc: true},
	{Column: "id", Desc: true},
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	tx           *repository.Transactor
	transactions repository.Store[models.Transaction]
	fuel         repository.Store[models.FuelData]
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(st *Stores) TransactionServicer {
	return &transactionService{
		tx:           st.Tx,
		transactions: st.Transactions,
		fuel:         st.FuelData,
	}
}

func withTransactionAssociations() []repository.Option {
	return []repository.Option{
		repository.Preload("Member"),
		repository.Preload("Category"),
		repository.Preload("FuelData"),
	}
}

// applyTransactionFilters converts a filter into query options.
func applyTransactionFilters(filter TransactionFilter) []repository.Option {
	var opts []repository.Option
	if filter.From != nil {
		opts = append(opts, repository.Where("date >= ?", *filter.From))
	}
	if filter.To != nil {
		opts = append(opts, repository.Where("date <= ?", *filter.To))
	}
	if filter.MemberID != nil {
		opts = append(opts, repository.Where("member_id = ?", *filter.MemberID))
	}
	if filter.FuelOnly {
		opts = append(opts, repository.Where(fuelExistsClause))
	}
	return opts
}

// FindAll returns one page of transactions, newest first unless sorted.
func (s *transactionService) FindAll(ctx context.Context, page pagination.PageRequest) (*pagination.Page[dto.TransactionDTO], error) {
	return s.findPage(ctx, page, TransactionFilter{})
}

// FindFuel returns one page of transactions carrying fuel data.
func (s *transactionService) FindFuel(ctx context.Context, page pagination.PageRequest) (*pagination.Page[dto.TransactionDTO], error) {
	return s.findPage(ctx, page, TransactionFilter{FuelOnly: true})
}

func (s *transactionService) findPage(ctx context.Context, page pagination.PageRequest, filter TransactionFilter) (*pagination.Page[dto.TransactionDTO], error) {
	page.Defaults()
	if err := page.ResolveSort(transactionSortColumns, defaultTransactionOrder...); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	opts := append(applyTransactionFilters(filter), withTransactionAssociations()...)

	var out pagination.Page[dto.TransactionDTO]
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		transactions, err := s.transactions.FindPage(ctx, page, opts...)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = pagination.Map(transactions, func(t models.Transaction) dto.TransactionDTO {
			return dto.NewTransactionDTO(&t)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID returns a single transaction with its member, category and fuel
// data.
func (s *transactionService) FindByID(ctx context.Context, id int64) (*dto.TransactionDTO, error) {
	var out dto.TransactionDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		transaction, err := s.transactions.FindByID(ctx, id, withTransactionAssociations()...)
		if err != nil {
			return lookupError(err, apperrors.ErrTransactionNotFound)
		}
		out = dto.NewTransactionDTO(transaction)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert creates a transaction and, for a fuel expense, its fuel data.
func (s *transactionService) Insert(ctx context.Context, in dto.TransactionDTO) (*dto.TransactionDTO, error) {
	transaction := &models.Transaction{}
	if err := copyTransaction(transaction, in); err != nil {
		return nil, err
	}
	if in.FuelData != nil && transaction.TransactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrFuelDataNotAllowed
	}

	var out dto.TransactionDTO
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.transactions.Save(ctx, transaction); err != nil {
			return writeError(err)
		}
		if in.FuelData != nil {
			if err := s.saveFuel(ctx, transaction.ID, in.FuelData); err != nil {
				return err
			}
		}

		saved, err := s.transactions.FindByID(ctx, transaction.ID, withTransactionAssociations()...)
		if err != nil {
			return lookupError(err, apperrors.ErrTransactionNotFound)
		}
		out = dto.NewTransactionDTO(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update overwrites the scalar fields and references of a transaction. On an
// EXPENSE a nil fuel payload leaves stored fuel data untouched. Turning the
// transaction into an INCOME removes its fuel data.
func (s *transactionService) Update(ctx context.Context, id int64, in dto.TransactionDTO) (*dto.TransactionDTO, error) {
	var out dto.TransactionDTO
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		transaction, err := s.transactions.FindByID(ctx, id, repository.Preload("FuelData"))
		if err != nil {
			return lookupError(err, apperrors.ErrTransactionNotFound)
		}

		if err := copyTransaction(transaction, in); err != nil {
			return err
		}
		isExpense := transaction.TransactionType == models.TransactionTypeExpense
		if in.FuelData != nil && !isExpense {
			return apperrors.ErrFuelDataNotAllowed
		}
		dropFuel := transaction.IsFuel() && !isExpense

		transaction.Member = nil
		transaction.Category = nil
		if err := s.transactions.Save(ctx, transaction); err != nil {
			return writeError(err)
		}
		if in.FuelData != nil {
			if err := s.saveFuel(ctx, transaction.ID, in.FuelData); err != nil {
				return err
			}
		}
		if dropFuel {
			if _, err := s.fuel.DeleteWhere(ctx, repository.Where("transaction_id = ?", transaction.ID)); err != nil {
				return writeError(err)
			}
		}

		saved, err := s.transactions.FindByID(ctx, id, withTransactionAssociations()...)
		if err != nil {
			return lookupError(err, apperrors.ErrTransactionNotFound)
		}
		out = dto.NewTransactionDTO(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a transaction together with its fuel data.
func (s *transactionService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := mustExist(ctx, s.transactions, id, apperrors.ErrTransactionNotFound); err != nil {
			return err
		}
		if _, err := s.fuel.DeleteWhere(ctx, repository.Where("transaction_id = ?", id)); err != nil {
			return writeError(err)
		}
		if err := s.transactions.Delete(ctx, id); err != nil {
			return writeError(err)
		}
		return nil
	})
}

func (s *transactionService) saveFuel(ctx context.Context, transactionID int64, in *dto.FuelDataDTO) error {
	fuel := &models.FuelData{
		TransactionID: transactionID,
		Liters:        in.Liters,
		Kilometers:    in.Kilometers,
	}
	if err := s.fuel.Save(ctx, fuel); err != nil {
		return writeError(err)
	}
	return nil
}

// copyTransaction validates in and copies its fields onto t.
func copyTransaction(t *models.Transaction, in dto.TransactionDTO) error {
	if !in.TransactionType.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if !in.Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	categoryID := in.ResolveCategoryID()
	if categoryID == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	t.Amount = in.Amount.Round(2)
	t.Description = strings.TrimSpace(in.Description)
	t.Date = in.Date
	if t.Date.IsZero() {
		t.Date = models.Today()
	}
	t.TransactionType = in.TransactionType
	t.CategoryID = *categoryID
	t.MemberID = in.ResolveMemberID()
	return nil
}
