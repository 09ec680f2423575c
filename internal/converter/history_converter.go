package converter

import (
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/entity"
)

func ApprovalsToResponses(approvals []entity.Approval) []dto.ApprovalResponse {
	responses := make([]dto.ApprovalResponse, len(approvals))
	for i, a := range approvals {
		responses[i] = dto.ApprovalResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			Action:    string(a.Action),
			Comment:   a.Comment,
			CreatedAt: a.CreatedAt,
		}
	}
	return responses
}

func CancellationsToResponses(cancellations []entity.Cancellation) []dto.CancellationResponse {
	responses := make([]dto.CancellationResponse, len(cancellations))
	for i, c := range cancellations {
		responses[i] = dto.CancellationResponse{
			ID:          c.ID,
			CancelledBy: c.CancelledBy,
			Reason:      c.Reason,
			CreatedAt:   c.CreatedAt,
		}
	}
	return responses
}
