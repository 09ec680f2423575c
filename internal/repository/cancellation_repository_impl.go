package repository

import (
	"errors"

	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cancellationRepository struct{}

func NewCancellationRepository() domainRepo.CancellationRepository {
	return &cancellationRepository{}
}

func (r *cancellationRepository) Create(db *gorm.DB, cancellation *entity.Cancellation) error {
	return db.Create(cancellation).Error
}

func (r *cancellationRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Cancellation, error) {
	var cancellations []entity.Cancellation
	err := db.Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&cancellations).Error
	if err != nil {
		return nil, err
	}
	return cancellations, nil
}

// FindLatestReason returns the newest cancellation reason, or nil if the booking
// was never cancelled.
func (r *cancellationRepository) FindLatestReason(db *gorm.DB, bookingID uuid.UUID) (*string, error) {
	var cancellation entity.Cancellation
	err := db.Where("booking_id = ?", bookingID).Order("created_at DESC").First(&cancellation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cancellation.Reason, nil
}
