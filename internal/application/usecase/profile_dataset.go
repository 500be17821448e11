package usecase

import (
	"context"
	"fmt"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
)

// ProfileDataset is the use case for a first look at a raw file.
type ProfileDataset struct {
	store    port.DatasetStore
	profiler *service.Profiler
}

// NewProfileDataset creates a new ProfileDataset use case.
func NewProfileDataset(store port.DatasetStore, profiler *service.Profiler) *ProfileDataset {
	return &ProfileDataset{store: store, profiler: profiler}
}

// Execute profiles the file at path.
func (uc *ProfileDataset) Execute(ctx context.Context, path string) (model.DatasetProfile, error) {
	table, err := uc.store.ReadTable(ctx, path)
	if err != nil {
		return model.DatasetProfile{}, fmt.Errorf("failed to read dataset: %w", err)
	}
	return uc.profiler.Profile(table), nil
}
