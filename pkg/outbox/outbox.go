package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// DomainEvent is what services emit; the envelope and row shape stay here.
type DomainEvent struct {
	EventType     enums.EventType
	AggregateType enums.AggregateType
	AggregateID   uuid.UUID
	Data          any
	Version       int
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Emitter writes events into the outbox inside the caller's transaction.
type Emitter struct{}

// NewEmitter constructs the transactional outbox emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit serializes the event and inserts the outbox row in tx. The row is
// published asynchronously by the outbox-publisher worker.
func (e *Emitter) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return fmt.Errorf("transaction required")
	}
	if event.EventType == "" {
		return fmt.Errorf("event type required")
	}
	if event.AggregateID == uuid.Nil {
		return fmt.Errorf("aggregate id required")
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshaling event data: %w", err)
	}
	envelope := PayloadEnvelope{
		Version:    event.Version,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}

	row := models.OutboxEvent{
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       payload,
	}
	return tx.WithContext(ctx).Create(&row).Error
}
