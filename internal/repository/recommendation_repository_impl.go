package repository

import (
	"errors"

	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recommendationRepository struct{}

func NewRecommendationRepository() domainRepo.RecommendationRepository {
	return &recommendationRepository{}
}

func (r *recommendationRepository) Create(db *gorm.DB, rec *entity.Recommendation) error {
	return db.Create(rec).Error
}

func (r *recommendationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Recommendation, error) {
	var rec entity.Recommendation
	err := db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) FindAll(db *gorm.DB, status *entity.RecommendationStatus, category string) ([]entity.Recommendation, error) {
	var recs []entity.Recommendation
	query := db.Model(&entity.Recommendation{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}
	err := query.Order("created_at DESC").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepository) Update(db *gorm.DB, rec *entity.Recommendation) error {
	return db.Omit("Status", "CreatedAt").Save(rec).Error
}

func (r *recommendationRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.RecommendationStatus) (int64, error) {
	result := db.Model(&entity.Recommendation{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}
