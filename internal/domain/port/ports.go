package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/events"
)

// ModelRepository defines the persistence port for trained models.
type ModelRepository interface {
	// Save persists a model and makes it the latest.
	Save(ctx context.Context, m *model.TrainedModel) error

	// FindByID retrieves a model by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*model.TrainedModel, error)

	// Latest retrieves the most recently saved model.
	Latest(ctx context.Context) (*model.TrainedModel, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// DatasetStore reads raw tables and writes the cleaned dataset.
type DatasetStore interface {
	ReadTable(ctx context.Context, path string) (model.RawTable, error)
	WriteTable(ctx context.Context, path string, table model.RawTable) error
	// Fingerprint is a content hash used to key caches and tag models.
	Fingerprint(ctx context.Context, path string) (string, error)
}

// InsightsCache stores computed reports keyed by dataset fingerprint.
type InsightsCache interface {
	Get(ctx context.Context, fingerprint string) (model.InsightsReport, bool, error)
	Set(ctx context.Context, fingerprint string, report model.InsightsReport) error
}

// ModelProvider hands out the serving model. Implementations load at most
// once and are safe for concurrent use.
type ModelProvider interface {
	Model(ctx context.Context) (*model.TrainedModel, error)
}

// Metrics records prediction and training telemetry.
type Metrics interface {
	RecordPrediction(ctx context.Context, class int, latency time.Duration)
	RecordTraining(ctx context.Context, strategy string, duration time.Duration)
}
