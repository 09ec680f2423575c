package converter

import (
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:                  booking.ID,
		BookingCode:         booking.BookingCode,
		GuestName:           booking.GuestName,
		GuestEmail:          booking.GuestEmail,
		CheckIn:             availability.FormatDate(booking.CheckIn),
		CheckOut:            availability.FormatDate(booking.CheckOut),
		Nights:              booking.Nights(),
		Adults:              booking.Adults,
		GrandchildrenOver21: booking.GrandchildrenOver21,
		Children16Plus:      booking.Children16Plus,
		Students:            booking.Students,
		FamilyMember:        booking.FamilyMember,
		Status:              string(booking.Status),
		CreatedAt:           booking.CreatedAt,
		UpdatedAt:           booking.UpdatedAt,
	}
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

// BookingToCancellationPreview hides everything the cancel page does not need.
func BookingToCancellationPreview(booking *entity.Booking, reason *string) *dto.CancellationPreviewResponse {
	return &dto.CancellationPreviewResponse{
		BookingCode:  booking.BookingCode,
		GuestName:    booking.GuestName,
		CheckIn:      availability.FormatDate(booking.CheckIn),
		CheckOut:     availability.FormatDate(booking.CheckOut),
		Nights:       booking.Nights(),
		Status:       string(booking.Status),
		Cancellable:  booking.Status.CanTransitionTo(entity.BookingStatusCancelled),
		CancelReason: reason,
	}
}

func BookingsToStays(bookings []entity.Booking) []dto.StayResponse {
	stays := make([]dto.StayResponse, len(bookings))
	for i, b := range bookings {
		stays[i] = dto.StayResponse{
			BookingCode: b.BookingCode,
			GuestName:   b.GuestName,
			CheckIn:     availability.FormatDate(b.CheckIn),
			CheckOut:    availability.FormatDate(b.CheckOut),
			Nights:      b.Nights(),
			PartySize:   b.PartySize(),
		}
	}
	return stays
}
