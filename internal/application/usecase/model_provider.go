package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
)

// LazyModelProvider loads one model from the repository on first use and
// serves it read-only afterwards. A failed load is remembered, so a broken
// artifact fails every call instead of being retried per request. A load cut
// short by the caller's context is not remembered.
type LazyModelProvider struct {
	repo  port.ModelRepository
	model *model.TrainedModel
	err   error
	mu    sync.Mutex
	done  bool
	ready atomic.Bool
	id    uuid.UUID
}

// NewLazyModelProvider creates a provider for model id, or for the latest
// model when id is uuid.Nil.
func NewLazyModelProvider(repo port.ModelRepository, id uuid.UUID) *LazyModelProvider {
	return &LazyModelProvider{repo: repo, id: id}
}

// Model returns the loaded model. Load errors are *model.ArtifactLoadError.
func (p *LazyModelProvider) Model(ctx context.Context) (*model.TrainedModel, error) {
	if p.ready.Load() {
		return p.model, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return p.model, p.err
	}

	m, err := p.load(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil, err
	}
	p.model, p.err, p.done = m, err, true
	if err == nil {
		p.ready.Store(true)
	}
	return m, err
}

func (p *LazyModelProvider) load(ctx context.Context) (*model.TrainedModel, error) {
	var m *model.TrainedModel
	var err error
	source := "latest"
	if p.id == uuid.Nil {
		m, err = p.repo.Latest(ctx)
	} else {
		source = p.id.String()
		m, err = p.repo.FindByID(ctx, p.id)
	}

	if err != nil {
		if !errors.Is(err, model.ErrArtifactLoad) {
			err = &model.ArtifactLoadError{Source: source, Err: err}
		}
		return nil, err
	}
	if m == nil {
		return nil, &model.ArtifactLoadError{Source: source, Err: fmt.Errorf("repository returned no model")}
	}
	return m, nil
}

// Loaded reports whether a model is available without triggering a load.
func (p *LazyModelProvider) Loaded() bool {
	return p.ready.Load()
}
