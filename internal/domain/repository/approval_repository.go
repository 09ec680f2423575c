package repository

import (
	"cottage-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(db *gorm.DB, approval *entity.Approval) error
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Approval, error)
}
