package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// OutboxEvent is a transactional outbox row drained by the publisher worker.
type OutboxEvent struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AggregateType enums.AggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID           `gorm:"column:aggregate_id;type:uuid;not null"`
	EventType     enums.EventType     `gorm:"column:event_type;not null"`
	Payload       []byte              `gorm:"column:payload;type:jsonb;not null"`
	AttemptCount  int                 `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string             `gorm:"column:last_error"`
	PublishedAt   *time.Time          `gorm:"column:published_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
