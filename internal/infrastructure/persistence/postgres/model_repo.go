package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/artifact"
	pgutil "github.com/Mohana-teja/loan-default-dashboard/pkg/postgres"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pgutil.Querier
	pgutil.TxBeginner
}

// ModelRepo implements port.ModelRepository on the trained_models table.
// Artifacts are stored in the same encoding as the filesystem registry.
type ModelRepo struct {
	db DB
}

// NewModelRepo creates a new PostgreSQL-backed model repository.
func NewModelRepo(db DB) *ModelRepo {
	return &ModelRepo{db: db}
}

// Save inserts the model and moves the latest flag to it in one transaction.
func (r *ModelRepo) Save(ctx context.Context, m *model.TrainedModel) error {
	data, err := artifact.Encode(m)
	if err != nil {
		return fmt.Errorf("encode model %s: %w", m.ID(), err)
	}

	return pgutil.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE trained_models SET is_latest = FALSE WHERE is_latest`); err != nil {
			return fmt.Errorf("clear latest model: %w", err)
		}

		query := `
			INSERT INTO trained_models (
				id, strategy, schema_id, schema_version, dataset_rows,
				fingerprint, accuracy, artifact, is_latest, trained_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE,$9)
			ON CONFLICT (id) DO UPDATE SET is_latest = TRUE
		`
		_, err := tx.Exec(ctx, query,
			m.ID(), m.Strategy().String(), m.Schema().ID(), m.Schema().Version(), m.DatasetRows(),
			m.Fingerprint(), m.Evaluation().Accuracy, data, m.TrainedAt(),
		)
		if err != nil {
			return fmt.Errorf("save model %s: %w", m.ID(), err)
		}
		return nil
	})
}

// FindByID retrieves a model by its unique identifier.
func (r *ModelRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TrainedModel, error) {
	m, err := r.scanOne(ctx, id.String(), `SELECT artifact FROM trained_models WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrModelNotFound, id)
	}
	return m, err
}

// Latest retrieves the model carrying the latest flag.
func (r *ModelRepo) Latest(ctx context.Context) (*model.TrainedModel, error) {
	m, err := r.scanOne(ctx, "latest", `SELECT artifact FROM trained_models WHERE is_latest`)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: registry is empty", model.ErrModelNotFound)
	}
	return m, err
}

func (r *ModelRepo) scanOne(ctx context.Context, source, query string, args ...any) (*model.TrainedModel, error) {
	var data []byte
	if err := r.db.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("query model %s: %w", source, err)
	}

	m, err := artifact.Decode(data)
	if err != nil {
		return nil, &model.ArtifactLoadError{Source: "postgres:" + source, Err: err}
	}
	return m, nil
}
