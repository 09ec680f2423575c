package repository

import (
	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type approvalRepository struct{}

func NewApprovalRepository() domainRepo.ApprovalRepository {
	return &approvalRepository{}
}

func (r *approvalRepository) Create(db *gorm.DB, approval *entity.Approval) error {
	return db.Create(approval).Error
}

func (r *approvalRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Approval, error) {
	var approvals []entity.Approval
	err := db.Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}
