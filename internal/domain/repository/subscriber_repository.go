package repository

import (
	"cottage-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriberRepository interface {
	Upsert(db *gorm.DB, subscriber *entity.Subscriber) error
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SubscriberStatus) (int64, error)
	FindActive(db *gorm.DB) ([]entity.Subscriber, error)
}
