package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecommendationStatus tracks moderation of a local recommendation.
type RecommendationStatus string

const (
	RecommendationStatusPending  RecommendationStatus = "pending"
	RecommendationStatusApproved RecommendationStatus = "approved"
	RecommendationStatusRejected RecommendationStatus = "rejected"
)

// Recommendation is a guest-submitted local tip (restaurant, beach, walk...).
type Recommendation struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"type:varchar(255);not null" json:"name"`
	Address     *string                     `gorm:"type:text" json:"address,omitempty"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Category    string                      `gorm:"type:varchar(100);not null;index" json:"category"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	Photos      datatypes.JSONSlice[string] `gorm:"type:json" json:"photos"`
	SubmittedBy *string                     `gorm:"type:varchar(255)" json:"submitted_by,omitempty"`
	Status      RecommendationStatus        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
