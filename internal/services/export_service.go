package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

// ExportSheet is the name of the worksheet holding exported transactions.
const ExportSheet = "Transactions"

var exportHeaders = []any{
	"ID", "Date", "Description", "Type", "Amount", "Category", "Member",
	"Liters", "Kilometers", "Consumption (km/l)",
}

// exportService renders transactions as spreadsheets.
type exportService struct {
	tx           *repository.Transactor
	transactions repository.Store[models.Transaction]
}

// NewExportService creates a new ExportServicer.
func NewExportService(st *Stores) ExportServicer {
	return &exportService{tx: st.Tx, transactions: st.Transactions}
}

// Transactions returns an xlsx workbook with one row per matching
// transaction, oldest first.
func (s *exportService) Transactions(ctx context.Context, filter TransactionFilter) ([]byte, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}

	var transactions []models.Transaction
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		opts := applyTransactionFilters(filter)
		opts = append(opts, withTransactionAssociations()...)
		opts = append(opts, repository.OrderBy("date", false), repository.OrderBy("id", false))

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

	data, err := buildWorkbook(transactions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

func buildWorkbook(transactions []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, t := range transactions {
		row := exportRow(&t)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(t *models.Transaction) []any {
	row := []any{
		t.ID,
		t.Date.String(),
		t.Description,
		string(t.TransactionType),
		t.Amount.InexactFloat64(),
		"",
		"",
		nil,
		nil,
		nil,
	}
	if t.Category != nil {
		row[5] = t.Category.Name
	}
	if t.Member != nil {
		row[6] = t.Member.Name
	}
	if fuel := t.FuelData; fuel != nil {
		if fuel.Liters != nil {
			row[7] = *fuel.Liters
		}
		if fuel.Kilometers != nil {
			row[8] = *fuel.Kilometers
		}
		if fuel.Consumption != nil {
			row[9] = *fuel.Consumption
		}
	}
	return row
}
