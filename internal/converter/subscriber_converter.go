package converter

import (
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/entity"
)

func SubscriberToResponse(s *entity.Subscriber) *dto.SubscriberResponse {
	if s == nil {
		return nil
	}
	return &dto.SubscriberResponse{
		ID:     s.ID,
		Name:   s.Name,
		Email:  s.Email,
		Status: string(s.Status),
	}
}
