package dto

import (
	"financeiro/internal/models"

	"github.com/shopspring/decimal"
)

// FuelDataDTO is the fuel payload of an expense.
type FuelDataDTO struct {
	Liters      *float64 `json:"liters" binding:"omitempty,gte=0"`
	Kilometers  *float64 `json:"kilometers" binding:"omitempty,gte=0"`
	Consumption *float64 `json:"consumption,omitempty"`
}

// TransactionDTO is the API shape of a transaction. On input the member and
// category may be referenced either by memberId/categoryId or by nested
// {"id": n} objects.
type TransactionDTO struct {
	ID              int64                  `json:"id"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description" binding:"max=255"`
	Date            models.Date            `json:"date"`
	TransactionType models.TransactionType `json:"transactionType" binding:"required,transaction_type"`
	MemberID        *int64                 `json:"memberId,omitempty"`
	CategoryID      *int64                 `json:"categoryId,omitempty"`
	Member          *MemberDTO             `json:"member,omitempty" binding:"-"`
	Category        *CategoryDTO           `json:"category,omitempty" binding:"-"`
	FuelData        *FuelDataDTO           `json:"fuelData,omitempty"`
}

// ResolveMemberID returns the referenced member id, if any.
func (t TransactionDTO) ResolveMemberID() *int64 {
	if t.MemberID != nil && *t.MemberID > 0 {
		return t.MemberID
	}
	if t.Member != nil && t.Member.ID > 0 {
		id := t.Member.ID
		return &id
	}
	return nil
}

// ResolveCategoryID returns the referenced category id, if any.
func (t TransactionDTO) ResolveCategoryID() *int64 {
	if t.CategoryID != nil && *t.CategoryID > 0 {
		return t.CategoryID
	}
	if t.Category != nil && t.Category.ID > 0 {
		id := t.Category.ID
		return &id
	}
	return nil
}

// NewTransactionDTO converts a transaction model with whatever
// associations were loaded.
func NewTransactionDTO(t *models.Transaction) TransactionDTO {
	out := TransactionDTO{
		ID:              t.ID,
		Amount:          t.Amount,
		Description:     t.Description,
		Date:            t.Date,
		TransactionType: t.TransactionType,
		MemberID:        t.MemberID,
	}
	categoryID := t.CategoryID
	out.CategoryID = &categoryID
	if t.Member != nil {
		m := NewMemberDTO(t.Member)
		out.Member = &m
	}
	if t.Category != nil {
		c := NewCategoryDTO(t.Category)
		out.Category = &c
	}
	if t.FuelData != nil {
		out.FuelData = &FuelDataDTO{
			Liters:      t.FuelData.Liters,
			Kilometers:  t.FuelData.Kilometers,
			Consumption: t.FuelData.Consumption,
		}
	}
	return out
}
