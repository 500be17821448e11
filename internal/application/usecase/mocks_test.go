package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/events"
)

// --- Mock implementations ---

type mockDatasetStore struct {
	tables      map[string]model.RawTable
	written     map[string]model.RawTable
	readFunc    func(ctx context.Context, path string) (model.RawTable, error)
	fingerprint string
}

func newMockDatasetStore() *mockDatasetStore {
	return &mockDatasetStore{
		tables:      make(map[string]model.RawTable),
		written:     make(map[string]model.RawTable),
		fingerprint: "fp-test",
	}
}

func (m *mockDatasetStore) ReadTable(ctx context.Context, path string) (model.RawTable, error) {
	if m.readFunc != nil {
		return m.readFunc(ctx, path)
	}
	t, ok := m.tables[path]
	if !ok {
		return model.RawTable{}, fmt.Errorf("open %s: no such file", path)
	}
	return t, nil
}

func (m *mockDatasetStore) WriteTable(_ context.Context, path string, table model.RawTable) error {
	m.written[path] = table
	return nil
}

func (m *mockDatasetStore) Fingerprint(_ context.Context, _ string) (string, error) {
	return m.fingerprint, nil
}

type mockModelRepository struct {
	mu         sync.Mutex
	models     []*model.TrainedModel
	saveFunc   func(ctx context.Context, m *model.TrainedModel) error
	latestFunc func(ctx context.Context) (*model.TrainedModel, error)
	loadCalls  int
}

func (r *mockModelRepository) Save(ctx context.Context, m *model.TrainedModel) error {
	if r.saveFunc != nil {
		return r.saveFunc(ctx, m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, m)
	return nil
}

func (r *mockModelRepository) FindByID(_ context.Context, id uuid.UUID) (*model.TrainedModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCalls++
	for _, m := range r.models {
		if m.ID() == id {
			return m, nil
		}
	}
	return nil, model.ErrModelNotFound
}

func (r *mockModelRepository) Latest(ctx context.Context) (*model.TrainedModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCalls++
	if r.latestFunc != nil {
		return r.latestFunc(ctx)
	}
	if len(r.models) == 0 {
		return nil, model.ErrModelNotFound
	}
	return r.models[len(r.models)-1], nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockMetrics struct {
	predictions map[int]int
	trainings   map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{predictions: make(map[int]int), trainings: make(map[string]int)}
}

func (m *mockMetrics) RecordPrediction(_ context.Context, class int, _ time.Duration) {
	m.predictions[class]++
}

func (m *mockMetrics) RecordTraining(_ context.Context, strategy string, _ time.Duration) {
	m.trainings[strategy]++
}

type mockInsightsCache struct {
	entries map[string]model.InsightsReport
	getErr  error
	setErr  error
	sets    int
}

func (c *mockInsightsCache) Get(_ context.Context, fp string) (model.InsightsReport, bool, error) {
	if c.getErr != nil {
		return model.InsightsReport{}, false, c.getErr
	}
	r, ok := c.entries[fp]
	return r, ok, nil
}

func (c *mockInsightsCache) Set(_ context.Context, fp string, r model.InsightsReport) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[fp] = r
	return nil
}

// --- Fixtures ---

func testLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

// cleanedTable builds a cleaned dataset with n rows, the first positives of
// which default. Defaults are low grade and past due.
func cleanedTable(n, positives int) model.RawTable {
	rng := rand.New(rand.NewPCG(7, 7))
	rows := make([][]string, n)
	for i := range rows {
		grade, rate, dpd, flag := "ABC"[rng.IntN(3)], 5+rng.Float64()*8, rng.IntN(5), "0"
		if i < positives {
			grade, rate, dpd, flag = "EFG"[rng.IntN(3)], 18+rng.Float64()*10, 60+rng.IntN(120), "1"
		}
		amount := 1000 + rng.IntN(30000)
		rows[i] = []string{
			strconv.Itoa(amount),
			[]string{"36", "60"}[rng.IntN(2)],
			strconv.FormatFloat(rate, 'f', 2, 64),
			strconv.Itoa(amount / 30),
			string(grade),
			strconv.Itoa(amount / 2),
			strconv.Itoa(amount / 2),
			strconv.Itoa(rng.IntN(2000)),
			"0",
			strconv.Itoa(dpd),
			flag,
		}
	}
	return model.RawTable{Header: valueobject.CleanedHeader(), Rows: rows}
}
