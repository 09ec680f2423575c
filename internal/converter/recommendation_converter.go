package converter

import (
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/entity"
)

func RecommendationToResponse(rec *entity.Recommendation) *dto.RecommendationResponse {
	if rec == nil {
		return nil
	}

	tags := []string(rec.Tags)
	if tags == nil {
		tags = []string{}
	}
	photos := []string(rec.Photos)
	if photos == nil {
		photos = []string{}
	}

	return &dto.RecommendationResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Address:     rec.Address,
		Description: rec.Description,
		Category:    rec.Category,
		Tags:        tags,
		Photos:      photos,
		SubmittedBy: rec.SubmittedBy,
		Status:      string(rec.Status),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func RecommendationsToResponses(recs []entity.Recommendation) []dto.RecommendationResponse {
	responses := make([]dto.RecommendationResponse, len(recs))
	for i := range recs {
		responses[i] = *RecommendationToResponse(&recs[i])
	}
	return responses
}
