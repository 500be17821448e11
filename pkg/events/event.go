package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent is an immutable DomainEvent carrying a pre-serialised payload.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	payload       []byte
	id            uuid.UUID
	aggregateID   uuid.UUID
}

// NewBaseEvent creates an event with a fresh ID stamped at the current UTC time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    time.Now().UTC(),
		payload:       payload,
	}
}

// NewJSONEvent marshals body as the event payload.
func NewJSONEvent(eventType string, aggregateID uuid.UUID, aggregateType string, body any) (BaseEvent, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return BaseEvent{}, fmt.Errorf("events: marshal %s payload: %w", eventType, err)
	}
	return NewBaseEvent(eventType, aggregateID, aggregateType, payload), nil
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) Payload() []byte        { return e.payload }

// Outbox holds the events an aggregate raised until the application layer
// drains and publishes them. The zero value is ready to use.
type Outbox struct {
	pending []DomainEvent
}

func (o *Outbox) Raise(event DomainEvent) { o.pending = append(o.pending, event) }

// Pending reports the undrained events; the outbox keeps them.
func (o *Outbox) Pending() []DomainEvent { return o.pending }

// Drain hands over the pending events and leaves the outbox empty.
func (o *Outbox) Drain() []DomainEvent {
	drained := o.pending
	o.pending = nil
	return drained
}
