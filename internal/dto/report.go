package dto

import "github.com/shopspring/decimal"

// MonthSummaryDTO aggregates one calendar month.
type MonthSummaryDTO struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// FuelSummaryDTO aggregates fuel expenses.
type FuelSummaryDTO struct {
	Entries            int             `json:"entries"`
	TotalLiters        float64         `json:"totalLiters"`
	TotalKilometers    float64         `json:"totalKilometers"`
	TotalCost          decimal.Decimal `json:"totalCost"`
	AverageConsumption *float64        `json:"averageConsumption"`
}

// SummaryDTO is the dashboard report over a window of months.
type SummaryDTO struct {
	From                  string            `json:"from"`
	To                    string            `json:"to"`
	TotalIncome           decimal.Decimal   `json:"totalIncome"`
	TotalExpense          decimal.Decimal   `json:"totalExpense"`
	Balance               decimal.Decimal   `json:"balance"`
	AverageMonthlyIncome  decimal.Decimal   `json:"averageMonthlyIncome"`
	AverageMonthlyExpense decimal.Decimal   `json:"averageMonthlyExpense"`
	Months                []MonthSummaryDTO `json:"months"`
	Fuel                  FuelSummaryDTO    `json:"fuel"`
}
