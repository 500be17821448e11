package usecase

import (
	"context"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
)

// GetModelInfo is the use case for describing the serving model.
type GetModelInfo struct {
	provider port.ModelProvider
}

// NewGetModelInfo creates a new GetModelInfo use case.
func NewGetModelInfo(provider port.ModelProvider) *GetModelInfo {
	return &GetModelInfo{provider: provider}
}

// Execute returns metadata and held-out metrics of the serving model.
func (uc *GetModelInfo) Execute(ctx context.Context) (dto.ModelInfoResponse, error) {
	m, err := uc.provider.Model(ctx)
	if err != nil {
		return dto.ModelInfoResponse{}, err
	}
	return dto.ModelInfoFromModel(m), nil
}
