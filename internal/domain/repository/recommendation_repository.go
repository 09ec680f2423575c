package repository

import (
	"cottage-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecommendationRepository interface {
	Create(db *gorm.DB, rec *entity.Recommendation) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Recommendation, error)
	FindAll(db *gorm.DB, status *entity.RecommendationStatus, category string) ([]entity.Recommendation, error)
	Update(db *gorm.DB, rec *entity.Recommendation) error
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.RecommendationStatus) (int64, error)
}
