package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/persistence/filesystem"
)

// flatModel is a logistic regression that scores every loan at 0.5.
func flatModel() *service.LogisticRegression {
	width := valueobject.SchemaLoanOrdinalV1.Len()
	scale := make([]float64, width)
	for i := range scale {
		scale[i] = 1
	}
	return &service.LogisticRegression{
		Mean:  make([]float64, width),
		Scale: scale,
		Coef:  make([]float64, width),
	}
}

func newModel(t *testing.T) *model.TrainedModel {
	t.Helper()
	eval, err := model.NewEvaluationReport(
		[]valueobject.Label{valueobject.LabelNoDefault, valueobject.LabelDefault},
		[]valueobject.Label{valueobject.LabelNoDefault, valueobject.LabelDefault},
	)
	require.NoError(t, err)
	m, err := model.NewTrainedModel(valueobject.SchemaLoanOrdinalV1, flatModel(), eval, 2, "feed")
	require.NoError(t, err)
	return m
}

func TestModelRepo_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := filesystem.NewModelRepo(dir)
	require.NoError(t, err)

	first := newModel(t)
	second := newModel(t)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())
	assert.Equal(t, "feed", got.Fingerprint())

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), latest.ID())

	assert.FileExists(t, filepath.Join(dir, first.ID().String()+".ldm"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "two artifacts plus the latest pointer, no temp files")
}

func TestModelRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, err := filesystem.NewModelRepo(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Latest(ctx)
	assert.ErrorIs(t, err, model.ErrModelNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrModelNotFound)
}

func TestModelRepo_CorruptArtifact(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := filesystem.NewModelRepo(dir)
	require.NoError(t, err)

	m := newModel(t)
	require.NoError(t, repo.Save(ctx, m))
	require.NoError(t, os.WriteFile(filepath.Join(dir, m.ID().String()+".ldm"), []byte("LDM1garbage"), 0o644))

	_, err = repo.Latest(ctx)
	var loadErr *model.ArtifactLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Source, m.ID().String())
}

func TestModelRepo_DanglingPointer(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := filesystem.NewModelRepo(dir)
	require.NoError(t, err)

	m := newModel(t)
	require.NoError(t, repo.Save(ctx, m))
	require.NoError(t, os.Remove(filepath.Join(dir, m.ID().String()+".ldm")))

	_, err = repo.Latest(ctx)
	assert.ErrorIs(t, err, model.ErrArtifactLoad)
}
