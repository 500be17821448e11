package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/artifact"
)

const (
	artifactExt = ".ldm"
	latestFile  = "latest"
)

// ModelRepo implements port.ModelRepository on a directory of artifacts.
// Each model is stored as <id>.ldm; the latest file holds the id of the
// most recently saved model.
type ModelRepo struct {
	dir string
}

// NewModelRepo creates a repository rooted at dir, creating it if needed.
func NewModelRepo(dir string) (*ModelRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model dir: %w", err)
	}
	return &ModelRepo{dir: dir}, nil
}

// Save writes the artifact and then moves the latest pointer to it.
func (r *ModelRepo) Save(ctx context.Context, m *model.TrainedModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := artifact.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to encode model %s: %w", m.ID(), err)
	}
	if err := writeAtomic(r.path(m.ID()), data); err != nil {
		return fmt.Errorf("failed to write model %s: %w", m.ID(), err)
	}
	if err := writeAtomic(filepath.Join(r.dir, latestFile), []byte(m.ID().String()+"\n")); err != nil {
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

// FindByID loads the artifact for id.
func (r *ModelRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TrainedModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.path(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrModelNotFound, id)
	}
	if err != nil {
		return nil, &model.ArtifactLoadError{Source: path, Err: err}
	}

	m, err := artifact.Decode(data)
	if err != nil {
		return nil, &model.ArtifactLoadError{Source: path, Err: err}
	}
	if m.ID() != id {
		return nil, &model.ArtifactLoadError{Source: path, Err: fmt.Errorf("artifact holds model %s", m.ID())}
	}
	return m, nil
}

// Latest follows the latest pointer.
func (r *ModelRepo) Latest(ctx context.Context) (*model.TrainedModel, error) {
	pointer := filepath.Join(r.dir, latestFile)
	raw, err := os.ReadFile(pointer)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no model saved in %s", model.ErrModelNotFound, r.dir)
	}
	if err != nil {
		return nil, &model.ArtifactLoadError{Source: pointer, Err: err}
	}

	id, err := uuid.Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, &model.ArtifactLoadError{Source: pointer, Err: fmt.Errorf("invalid model id: %w", err)}
	}

	m, err := r.FindByID(ctx, id)
	if errors.Is(err, model.ErrModelNotFound) {
		// A dangling pointer means the artifact was removed out from under us.
		return nil, &model.ArtifactLoadError{Source: r.path(id), Err: err}
	}
	return m, err
}

func (r *ModelRepo) path(id uuid.UUID) string {
	return filepath.Join(r.dir, id.String()+artifactExt)
}

// writeAtomic replaces path with data so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
