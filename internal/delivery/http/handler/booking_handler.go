package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/delivery/http/middleware"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"
	"cottage-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateBooking handles a guest booking request
// @Summary Request a stay
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.SubmitBooking(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking request received", booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.ListBookings(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeBookingError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeBookingError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) GetBookingHistory(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	history, err := h.bookingUsecase.GetBookingHistory(r.Context(), bookingID)
	if err != nil {
		writeBookingError(w, err, "Failed to get booking history")
		return
	}

	response.Success(w, http.StatusOK, "Booking history retrieved successfully", history)
}

// ApproveBooking handles an approver's approval
// @Summary Approve a pending booking
// @Tags Bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body dto.BookingDecisionRequest false "Optional comment"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/approve [post]
func (h *BookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.bookingUsecase.ApproveBooking, "Booking approved successfully")
}

// RejectBooking handles an approver's rejection
// @Summary Reject a pending booking
// @Tags Bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body dto.BookingDecisionRequest false "Optional comment"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/reject [post]
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.bookingUsecase.RejectBooking, "Booking rejected successfully")
}

type decisionFunc func(ctx context.Context, actorID, bookingID uuid.UUID, comment *string) (*dto.BookingResponse, error)

func (h *BookingHandler) decide(w http.ResponseWriter, r *http.Request, decide decisionFunc, message string) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	// The comment is optional, so an empty body is fine.
	var req dto.BookingDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := decide(r.Context(), actorID, bookingID, req.Comment)
	if err != nil {
		writeBookingError(w, err, "Failed to update booking")
		return
	}

	response.Success(w, http.StatusOK, message, booking)
}

func (h *BookingHandler) EditBookingDates(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.EditBookingDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.EditBookingDates(r.Context(), actorID, bookingID, &req)
	if err != nil {
		writeBookingError(w, err, "Failed to edit booking dates")
		return
	}

	response.Success(w, http.StatusOK, "Booking dates updated successfully", booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	bookingID, ok := bookingIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CancelBooking(r.Context(), actorID, bookingID, req.Reason)
	if err != nil {
		writeBookingError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

// ListUpcomingStays is the cleaners' schedule.
func (h *BookingHandler) ListUpcomingStays(w http.ResponseWriter, r *http.Request) {
	stays, err := h.bookingUsecase.ListUpcomingStays(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get upcoming stays")
		return
	}

	response.Success(w, http.StatusOK, "Upcoming stays retrieved successfully", stays)
}

func bookingIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return uuid.Nil, false
	}
	return bookingID, true
}
