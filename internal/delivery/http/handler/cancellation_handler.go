package handler

import (
	"encoding/json"
	"net/http"

	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"
	"cottage-booking/pkg/validator"

	"github.com/gorilla/mux"
)

// CancellationHandler serves the guest's cancel page. The token from the email
// link is the only credential.
type CancellationHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewCancellationHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *CancellationHandler {
	return &CancellationHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *CancellationHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.bookingUsecase.GetCancellationPreview(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeBookingError(w, err, "Failed to load booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", preview)
}

func (h *CancellationHandler) CancelByToken(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelByTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CancelBookingByToken(r.Context(), req.Token, req.Reason)
	if err != nil {
		writeBookingError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}
