package repository

import (
	"cottage-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CancellationRepository interface {
	Create(db *gorm.DB, cancellation *entity.Cancellation) error
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Cancellation, error)
	FindLatestReason(db *gorm.DB, bookingID uuid.UUID) (*string, error)
}
