package converter

import (
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
)

func PaymentToResponse(p *entity.BookingPayment) *dto.PaymentResponse {
	if p == nil {
		return nil
	}
	resp := &dto.PaymentResponse{
		ID:         p.ID,
		BookingID:  p.BookingID,
		BookingRef: p.BookingRef,
		IsPaid:     p.IsPaid,
		UpdatedBy:  p.UpdatedBy,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Booking != nil {
		resp.GuestName = p.Booking.GuestName
		resp.CheckIn = availability.FormatDate(p.Booking.CheckIn)
		resp.CheckOut = availability.FormatDate(p.Booking.CheckOut)
	}
	return resp
}

func PaymentsToResponses(payments []entity.BookingPayment) []dto.PaymentResponse {
	responses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *PaymentToResponse(&payments[i]))
	}
	return responses
}
