package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// maxLoggedDrops bounds per-row warnings for one cleaning run.
const maxLoggedDrops = 20

// CleanDataset is the use case for producing the canonical cleaned dataset.
type CleanDataset struct {
	store   port.DatasetStore
	cleaner *service.Cleaner
	logger  *slog.Logger
}

// NewCleanDataset creates a new CleanDataset use case.
func NewCleanDataset(store port.DatasetStore, cleaner *service.Cleaner, logger *slog.Logger) *CleanDataset {
	return &CleanDataset{store: store, cleaner: cleaner, logger: logger}
}

// Execute reads the raw file, derives labels, drops malformed rows and
// writes the cleaned file.
func (uc *CleanDataset) Execute(ctx context.Context, req dto.CleanRequest) (dto.CleanResponse, error) {
	table, err := uc.store.ReadTable(ctx, req.InputPath)
	if err != nil {
		return dto.CleanResponse{}, fmt.Errorf("failed to read raw dataset: %w", err)
	}

	loans, report, err := uc.cleaner.Clean(table)
	if err != nil {
		return dto.CleanResponse{}, err
	}

	for i, d := range report.Dropped {
		if i == maxLoggedDrops {
			uc.logger.Warn("further malformed rows not logged", "remaining", len(report.Dropped)-i)
			break
		}
		uc.logger.Warn("dropping malformed row", "row", d.Row, "column", d.Column, "reason", d.Reason)
	}

	out := model.RawTable{Header: valueobject.CleanedHeader(), Rows: uc.cleaner.Rows(loans)}
	if err := uc.store.WriteTable(ctx, req.OutputPath, out); err != nil {
		return dto.CleanResponse{}, fmt.Errorf("failed to write cleaned dataset: %w", err)
	}

	uc.logger.Info("dataset cleaned",
		"input", req.InputPath,
		"output", req.OutputPath,
		"rows_read", report.RowsRead,
		"rows_kept", report.RowsKept,
		"defaults", report.LabelCounts[valueobject.LabelDefault],
		"dropped_columns", report.DroppedColumns,
	)

	return dto.CleanResponse{Report: report}, nil
}
