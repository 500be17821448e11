package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
)

// GenerateInsights is the use case for the dashboard's aggregate statistics.
type GenerateInsights struct {
	store    port.DatasetStore
	cache    port.InsightsCache
	cleaner  *service.Cleaner
	reporter *service.InsightsReporter
	logger   *slog.Logger
}

// NewGenerateInsights creates a new GenerateInsights use case. cache may be
// nil to always recompute.
func NewGenerateInsights(
	store port.DatasetStore,
	cache port.InsightsCache,
	cleaner *service.Cleaner,
	reporter *service.InsightsReporter,
	logger *slog.Logger,
) *GenerateInsights {
	return &GenerateInsights{
		store:    store,
		cache:    cache,
		cleaner:  cleaner,
		reporter: reporter,
		logger:   logger,
	}
}

// Execute returns the report for the dataset, from cache when its content
// hash is known. Cache failures fall back to recomputation.
func (uc *GenerateInsights) Execute(ctx context.Context, req dto.InsightsRequest) (dto.InsightsResponse, error) {
	var fingerprint string
	if uc.cache != nil {
		fp, err := uc.store.Fingerprint(ctx, req.DatasetPath)
		if err != nil {
			return dto.InsightsResponse{}, fmt.Errorf("failed to fingerprint dataset: %w", err)
		}
		fingerprint = fp

		report, ok, err := uc.cache.Get(ctx, fingerprint)
		switch {
		case err != nil:
			uc.logger.Warn("insights cache read failed", "fingerprint", fingerprint, "error", err)
		case ok:
			return dto.InsightsResponse{Report: report, Cached: true}, nil
		}
	}

	loans, err := loadCleaned(ctx, uc.store, uc.cleaner, uc.logger, req.DatasetPath)
	if err != nil {
		return dto.InsightsResponse{}, err
	}

	report, err := uc.reporter.Generate(loans)
	if err != nil {
		return dto.InsightsResponse{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, fingerprint, report); err != nil {
			uc.logger.Warn("insights cache write failed", "fingerprint", fingerprint, "error", err)
		}
	}

	return dto.InsightsResponse{Report: report}, nil
}
