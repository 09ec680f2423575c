package handler

import (
	"errors"
	"net/http"

	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/service"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"
)

type rejectionBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeBookingError maps lifecycle and availability errors to HTTP statuses.
// Anything unrecognised is an infrastructure failure and becomes a 500 with
// fallback as the message.
func writeBookingError(w http.ResponseWriter, err error, fallback string) {
	if rej, ok := availability.IsRejection(err); ok {
		response.UnprocessableEntity(w, rej.Message(), rejectionBody{
			Reason:  string(rej.Reason),
			Message: rej.Message(),
			Detail:  rej.Detail,
		})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, usecase.ErrStaleState):
		response.Conflict(w, err.Error(), "stale_state")
	case errors.Is(err, usecase.ErrInvalidTransition):
		response.Conflict(w, err.Error(), "invalid_transition")
	case errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrCheckInInPast),
		errors.Is(err, usecase.ErrEmptyParty),
		errors.Is(err, usecase.ErrNoDateChange),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidMonth),
		errors.Is(err, usecase.ErrInvalidMonthRange):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrLockTimeout):
		response.ServiceUnavailable(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
