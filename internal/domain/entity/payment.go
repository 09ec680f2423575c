package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingPayment tracks whether the guest of an approved booking has paid.
// It is bookkeeping only: no money moves through the system.
type BookingPayment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	BookingRef string     `gorm:"type:varchar(32);not null" json:"booking_ref"`
	IsPaid     bool       `gorm:"not null;default:false" json:"is_paid"`
	UpdatedBy  *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (BookingPayment) TableName() string {
	return "booking_payments"
}

func (p *BookingPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
