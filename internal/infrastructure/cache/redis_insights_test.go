package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
)

// fakeClient is an in-memory Client.
type fakeClient struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisInsightsCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	cache := NewRedisInsightsCache(client, 0)

	_, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	report := model.InsightsReport{
		TotalRows:      100,
		LabelCounts:    [2]int{70, 30},
		OverallDefault: 0.3,
		RateByGrade:    []model.GroupRate{{Group: "A", Count: 40, Rate: 0.1}},
	}
	require.NoError(t, cache.Set(ctx, "abc", report))
	assert.Equal(t, DefaultTTL, client.ttls[keyPrefix+"abc"])

	got, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, report, got)
}

func TestRedisInsightsCache_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	cache := NewRedisInsightsCache(client, time.Minute)

	client.data[keyPrefix+"bad"] = []byte("{not json")
	_, ok, err := cache.Get(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, ok)

	client.getErr = errors.New("connection refused")
	_, _, err = cache.Get(ctx, "abc")
	assert.ErrorContains(t, err, "connection refused")
}
