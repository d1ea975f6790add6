package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/mustt-clothing/storefront/pkg/db/types"
	"github.com/mustt-clothing/storefront/pkg/enums"
)

// OutboxEvent is a domain event written in the same transaction as the row it describes.
type OutboxEvent struct {
	ID            uuid.UUID                     `gorm:"column:id;type:uuid;primaryKey"`
	EventType     enums.OutboxEventType         `gorm:"column:event_type;not null"`
	AggregateType enums.OutboxAggregateType     `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID                     `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       dbtypes.JSON[json.RawMessage] `gorm:"column:payload;not null"`
	CreatedAt     time.Time                     `gorm:"column:created_at;autoCreateTime"`
	PublishedAt   *time.Time                    `gorm:"column:published_at"`
	AttemptCount  int                           `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                       `gorm:"column:last_error"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

func (e *OutboxEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
