package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
)

// loadCleaned reads a cleaned (or raw) dataset and returns its labelled
// records. Dropped rows are logged, not fatal.
func loadCleaned(
	ctx context.Context,
	store port.DatasetStore,
	cleaner *service.Cleaner,
	logger *slog.Logger,
	path string,
) ([]model.LabeledLoan, error) {
	table, err := store.ReadTable(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	loans, report, err := cleaner.Clean(table)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	if len(report.Dropped) > 0 {
		logger.Warn("skipped malformed rows",
			"path", path,
			"dropped", len(report.Dropped),
			"first", report.Dropped[0].Error(),
		)
	}
	return loans, nil
}
