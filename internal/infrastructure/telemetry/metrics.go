package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
)

const meterName = "github.com/Mohana-teja/loan-default-dashboard"

var _ port.Metrics = (*Metrics)(nil)

// Metrics records prediction and training instruments on an otel meter.
type Metrics struct {
	predictions metric.Int64Counter
	latency     metric.Float64Histogram
	trainings   metric.Int64Counter
	trainTime   metric.Float64Histogram
}

// NewMetrics registers the instruments on provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	predictions, err := meter.Int64Counter("predictions_total",
		metric.WithDescription("Predictions served, by predicted class."))
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}
	latency, err := meter.Float64Histogram("prediction_latency_seconds",
		metric.WithDescription("Time to validate, encode and score one loan."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5))
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}
	trainings, err := meter.Int64Counter("training_runs_total",
		metric.WithDescription("Completed training runs, by strategy."))
	if err != nil {
		return nil, fmt.Errorf("failed to create training counter: %w", err)
	}
	trainTime, err := meter.Float64Histogram("training_duration_seconds",
		metric.WithDescription("Wall time of a training run."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create training histogram: %w", err)
	}

	return &Metrics{
		predictions: predictions,
		latency:     latency,
		trainings:   trainings,
		trainTime:   trainTime,
	}, nil
}

func (m *Metrics) RecordPrediction(ctx context.Context, class int, latency time.Duration) {
	attrs := metric.WithAttributes(attribute.String("class", strconv.Itoa(class)))
	m.predictions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, latency.Seconds(), attrs)
}

func (m *Metrics) RecordTraining(ctx context.Context, strategy string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.trainings.Add(ctx, 1, attrs)
	m.trainTime.Record(ctx, duration.Seconds(), attrs)
}
