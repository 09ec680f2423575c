package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalAction is the decision an approver took on a pending booking.
type ApprovalAction string

const (
	ApprovalActionApproved ApprovalAction = "approved"
	ApprovalActionRejected ApprovalAction = "rejected"
)

// Status is the booking status the decision moves to.
func (a ApprovalAction) Status() BookingStatus {
	if a == ApprovalActionApproved {
		return BookingStatusApproved
	}
	return BookingStatusRejected
}

// Approval is an append-only record of an approve/reject decision.
type Approval struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID      `gorm:"type:uuid;not null;index" json:"booking_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    ApprovalAction `gorm:"type:varchar(20);not null" json:"action"`
	Comment   *string        `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Approval) TableName() string {
	return "approvals"
}

func (a *Approval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
