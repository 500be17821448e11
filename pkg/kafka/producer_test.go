package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport.TLS)
	assert.Nil(t, p.transport.SASL)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(Config{})
	require.Error(t, err)
}

func TestNewProducer_Security(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "plain", mechanism: "PLAIN"},
		{name: "default is plain", mechanism: ""},
		{name: "scram 256", mechanism: "SCRAM-SHA-256"},
		{name: "scram 512 lower case", mechanism: "scram-sha-512"},
		{name: "unsupported", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(Config{
				Brokers: []string{"kafka:9092"},
				TLS:     true,
				SASL: SASL{
					Enabled:   true,
					Mechanism: tt.mechanism,
					Username:  "user",
					Password:  "pass",
				},
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p.transport.TLS)
			assert.NotNil(t, p.transport.SASL)
		})
	}
}

func TestProducer_WriterIsReusedPerTopic(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}})
	require.NoError(t, err)

	first := p.writer("loan-default.events")
	second := p.writer("loan-default.events")
	other := p.writer("other")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, "loan-default.events", first.Topic)
	assert.Equal(t, defaultBatchTimeout, first.BatchTimeout)
	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestProducer_PublishNothingIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "loan-default.events"))
	assert.Empty(t, p.writers)
}

func TestProducer_BatchTimeout(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, BatchTimeout: 50 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, p.writer("loan-default.events").BatchTimeout)
}
