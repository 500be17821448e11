package kafka

import "time"

const defaultBatchTimeout = 10 * time.Millisecond

// Config holds producer connection settings.
type Config struct {
	ClientID string
	Brokers  []string

	// BatchTimeout bounds how long a partial batch waits before it is
	// flushed. Zero means 10ms.
	BatchTimeout time.Duration

	TLS  bool
	SASL SASL
}

// SASL authentication. Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
type SASL struct {
	Mechanism string
	Username  string
	Password  string
	Enabled   bool
}

func (c Config) batchTimeout() time.Duration {
	if c.BatchTimeout <= 0 {
		return defaultBatchTimeout
	}
	return c.BatchTimeout
}
