package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewMetrics(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordPrediction(ctx, 1, 2*time.Millisecond)
	m.RecordPrediction(ctx, 1, time.Millisecond)
	m.RecordPrediction(ctx, 0, time.Millisecond)
	m.RecordTraining(ctx, "random_forest", 3*time.Second)

	data := collect(t, reader)

	preds, ok := data["predictions_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	byClass := map[string]int64{}
	for _, dp := range preds.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("class"))
		byClass[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"0": 1, "1": 2}, byClass)

	latency, ok := data["prediction_latency_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range latency.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	runs, ok := data["training_runs_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, runs.DataPoints, 1)
	assert.Equal(t, int64(1), runs.DataPoints[0].Value)
}
