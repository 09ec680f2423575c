package repository

import (
	"strings"

	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriberRepository struct{}

func NewSubscriberRepository() domainRepo.SubscriberRepository {
	return &subscriberRepository{}
}

// Upsert re-activates an existing address instead of failing on the unique email.
func (r *subscriberRepository) Upsert(db *gorm.DB, subscriber *entity.Subscriber) error {
	subscriber.Email = strings.ToLower(strings.TrimSpace(subscriber.Email))
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "status", "updated_at"}),
	}).Create(subscriber).Error
	if err != nil {
		return err
	}

	// On conflict the stored row keeps its original id.
	var stored entity.Subscriber
	if err := db.Where("email = ?", subscriber.Email).First(&stored).Error; err != nil {
		return err
	}
	*subscriber = stored
	return nil
}

func (r *subscriberRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SubscriberStatus) (int64, error) {
	result := db.Model(&entity.Subscriber{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *subscriberRepository) FindActive(db *gorm.DB) ([]entity.Subscriber, error) {
	var subscribers []entity.Subscriber
	err := db.Where("status = ?", entity.SubscriberStatusActive).
		Order("email ASC").
		Find(&subscribers).Error
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}
