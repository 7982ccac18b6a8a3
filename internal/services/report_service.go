package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

const (
	defaultReportMonths = 6
	maxReportMonths     = 36
	monthLayout         = "2006-01"
)

// reportService builds dashboard summaries.
type reportService struct {
	tx           *repository.Transactor
	transactions repository.Store[models.Transaction]
	now          func() time.Time
}

// NewReportService creates a new ReportServicer.
func NewReportService(st *Stores) ReportServicer {
	return &reportService{
		tx:           st.Tx,
		transactions: st.Transactions,
		now:          time.Now,
	}
}

// Summary aggregates the current month and the months before it. Averages
// are taken over the requested number of months, including months without
// transactions.
func (s *reportService) Summary(ctx context.Context, filter ReportFilter) (*dto.SummaryDTO, error) {
	months := filter.Months
	if months == 0 {
		months = defaultReportMonths
	}
	if months < 1 || months > maxReportMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 36")
	}

	today := models.DateOf(s.now())
	from := models.NewDate(today.Year(), today.Month()-time.Month(months-1), 1)

	var transactions []models.Transaction
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		opts := applyTransactionFilters(TransactionFilter{From: &from, To: &today, MemberID: filter.MemberID})
		opts = append(opts, repository.Preload("FuelData"))

		var err error
		transactions, err = s.transactions.FindAll(ctx, opts...)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := summarize(transactions, from, months)
	summary.From = from.String()
	summary.To = today.String()
	return summary, nil
}

// summarize folds transactions into monthly buckets starting at from.
func summarize(transactions []models.Transaction, from models.Date, months int) *dto.SummaryDTO {
	buckets := make([]dto.MonthSummaryDTO, months)
	index := make(map[string]int, months)
	for i := range buckets {
		key := from.AddDate(0, i, 0).Format(monthLayout)
		buckets[i] = dto.MonthSummaryDTO{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
		index[key] = i
	}

	out := &dto.SummaryDTO{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Fuel:         dto.FuelSummaryDTO{TotalCost: decimal.Zero},
	}

	for _, t := range transactions {
		i, ok := index[t.Date.Format(monthLayout)]
		if !ok {
			continue
		}
		switch t.TransactionType {
		case models.TransactionTypeIncome:
			buckets[i].Income = buckets[i].Income.Add(t.Amount)
			out.TotalIncome = out.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			buckets[i].Expense = buckets[i].Expense.Add(t.Amount)
			out.TotalExpense = out.TotalExpense.Add(t.Amount)
		}

		if t.FuelData != nil {
			out.Fuel.Entries++
			out.Fuel.TotalCost = out.Fuel.TotalCost.Add(t.Amount)
			if t.FuelData.Liters != nil {
				out.Fuel.TotalLiters += *t.FuelData.Liters
			}
			if t.FuelData.Kilometers != nil {
				out.Fuel.TotalKilometers += *t.FuelData.Kilometers
			}
		}
	}

	for i := range buckets {
		buckets[i].Balance = buckets[i].Income.Sub(buckets[i].Expense)
	}
	out.Months = buckets
	out.Balance = out.TotalIncome.Sub(out.TotalExpense)

	n := decimal.NewFromInt(int64(months))
	out.AverageMonthlyIncome = out.TotalIncome.Div(n).Round(2)
	out.AverageMonthlyExpense = out.TotalExpense.Div(n).Round(2)

	if out.Fuel.TotalLiters > 0 && out.Fuel.TotalKilometers > 0 {
		avg := out.Fuel.TotalKilometers / out.Fuel.TotalLiters
		out.Fuel.AverageConsumption = &avg
	}
	return out
}
