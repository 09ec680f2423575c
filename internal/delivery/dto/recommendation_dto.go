package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateRecommendationRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Photos      []string `json:"photos" validate:"omitempty,max=10,dive,url"`
	SubmittedBy *string  `json:"submitted_by" validate:"omitempty,max=255"`
}

type UpdateRecommendationRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Photos      []string `json:"photos" validate:"omitempty,max=10,dive,url"`
}

type ReviewRecommendationRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Response DTOs

type RecommendationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     *string   `json:"address,omitempty"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Photos      []string  `json:"photos"`
	SubmittedBy *string   `json:"submitted_by,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RecommendationListResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	Total           int                      `json:"total"`
}
