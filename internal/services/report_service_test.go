package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financeiro/internal/models"
	"financeiro/internal/testutil"
)

func TestReportSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(NewStores(db)).(*reportService)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	category := testutil.CreateTestCategory(t, db)
	member := testutil.CreateTestMember(t, db)

	testutil.CreateTestTransaction(t, db, category.ID, models.TransactionTypeIncome, "3000.00", models.NewDate(2024, 1, 5))
	testutil.CreateTestTransaction(t, db, category.ID, models.TransactionTypeExpense, "1000.00", models.NewDate(2024, 1, 20))
	testutil.CreateTestFuelTransaction(t, db, category.ID, "200.00", models.NewDate(2024, 3, 1), 40, 500)
	testutil.CreateTestFuelTransaction(t, db, category.ID, "100.00", models.NewDate(2024, 3, 10), 20, 300)
	memberTx := testutil.CreateTestTransaction(t, db, category.ID, models.TransactionTypeIncome, "600.00", models.NewDate(2024, 2, 2))
	db.Model(memberTx).Update("member_id", member.ID)

	// outside the window
	testutil.CreateTestTransaction(t, db, category.ID, models.TransactionTypeIncome, "999.00", models.NewDate(2023, 12, 31))
	testutil.CreateTestTransaction(t, db, category.ID, models.TransactionTypeIncome, "999.00", models.NewDate(2024, 3, 16))

	t.Run("three_months", func(t *testing.T) {
		got, err := svc.Summary(context.Background(), ReportFilter{Months: 3})
		testutil.AssertNoError(t, err)

		if got.From != "2024-01-01" || got.To != "2024-03-15" {
			t.Errorf("unexpected window %s..%s", got.From, got.To)
		}
		if !got.TotalIncome.Equal(decimal.NewFromInt(3600)) {
			t.Errorf("expected income 3600, got %s", got.TotalIncome)
		}
		if !got.TotalExpense.Equal(decimal.NewFromInt(1300)) {
			t.Errorf("expected expense 1300, got %s", got.TotalExpense)
		}
		if !got.Balance.Equal(decimal.NewFromInt(2300)) {
			t.Errorf("expected balance 2300, got %s", got.Balance)
		}
		if !got.AverageMonthlyIncome.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected average income 1200, got %s", got.AverageMonthlyIncome)
		}
		if !got.AverageMonthlyExpense.Equal(decimal.RequireFromString("433.33")) {
			t.Errorf("expected average expense 433.33, got %s", got.AverageMonthlyExpense)
		}

		if len(got.Months) != 3 {
			t.Fatalf("expected 3 months, got %d", len(got.Months))
		}
		wantMonths := []string{"2024-01", "2024-02", "2024-03"}
		for i, m := range got.Months {
			if m.Month != wantMonths[i] {
				t.Errorf("month %d: expected %s, got %s", i, wantMonths[i], m.Month)
			}
		}
		if !got.Months[2].Expense.Equal(decimal.NewFromInt(300)) || !got.Months[2].Balance.Equal(decimal.NewFromInt(-300)) {
			t.Errorf("unexpected March bucket %+v", got.Months[2])
		}

		if got.Fuel.Entries != 2 || got.Fuel.TotalLiters != 60 || got.Fuel.TotalKilometers != 800 {
			t.Errorf("unexpected fuel totals %+v", got.Fuel)
		}
		if !got.Fuel.TotalCost.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected fuel cost 300, got %s", got.Fuel.TotalCost)
		}
		if got.Fuel.AverageConsumption == nil || *got.Fuel.AverageConsumption != 800.0/60.0 {
			t.Errorf("unexpected average consumption %v", got.Fuel.AverageConsumption)
		}
	})

	t.Run("member_filter", func(t *testing.T) {
		got, err := svc.Summary(context.Background(), ReportFilter{Months: 3, MemberID: &member.ID})
		testutil.AssertNoError(t, err)
		if !got.TotalIncome.Equal(decimal.NewFromInt(600)) || !got.TotalExpense.IsZero() {
			t.Errorf("expected only the member's income, got %s / %s", got.TotalIncome, got.TotalExpense)
		}
		if got.Fuel.AverageConsumption != nil {
			t.Errorf("expected no fuel average, got %v", *got.Fuel.AverageConsumption)
		}
	})

	t.Run("default_months", func(t *testing.T) {
		got, err := svc.Summary(context.Background(), ReportFilter{})
		testutil.AssertNoError(t, err)
		if len(got.Months) != defaultReportMonths || got.From != "2023-10-01" {
			t.Errorf("expected 6 months from 2023-10-01, got %d from %s", len(got.Months), got.From)
		}
	})

	t.Run("invalid_months", func(t *testing.T) {
		_, err := svc.Summary(context.Background(), ReportFilter{Months: 100})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
