package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cancellation is an append-only record of a booking being cancelled.
// The most recent record for a booking is authoritative.
type Cancellation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"booking_id"`
	CancelledBy *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	Reason      string     `gorm:"type:text;not null" json:"reason"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}

func (c *Cancellation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
