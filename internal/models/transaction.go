package models

import "github.com/shopspring/decimal"

// TransactionType tags a transaction as money coming in or going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a financial transaction in the system.
// An EXPENSE may carry a FuelData payload; an INCOME never does.
type Transaction struct {
	Base
	Amount          decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	Description     string          `gorm:"size:255" json:"description"`
	Date            Date            `gorm:"not null;index" json:"date"`
	TransactionType TransactionType `gorm:"size:16;not null" json:"transactionType"`
	MemberID        *int64          `gorm:"index" json:"memberId,omitempty"`
	CategoryID      int64           `gorm:"not null;index" json:"categoryId"`

	// Relationships
	Member   *Member   `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	FuelData *FuelData `gorm:"foreignKey:TransactionID" json:"fuelData,omitempty"`
}

// IsFuel reports whether the transaction carries a fuel payload.
func (t *Transaction) IsFuel() bool {
	return t.FuelData != nil
}

// Equal reports whether both values denote the same stored transaction.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID != 0 && t.ID == other.ID
}
