package handler

import (
	"errors"
	"net/http"

	"cottage-booking/internal/delivery/http/middleware"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
	}
}

// ListPayments handles the staff payment list
// @Summary List payment status of approved bookings
// @Tags Payments
// @Security BearerAuth
// @Param sort query string false "asc or desc by check-in"
// @Success 200 {object} response.Response
// @Router /admin/payments [get]
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentUsecase.ListPayments(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSort) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to list payments")
		return
	}

	response.Success(w, http.StatusOK, "Payments retrieved successfully", payments)
}

// TogglePaid handles marking a booking paid or unpaid
// @Summary Toggle the paid flag of a booking payment
// @Tags Payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/payments/{id}/toggle [post]
func (h *PaymentHandler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	paymentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payment ID", nil)
		return
	}

	payment, err := h.paymentUsecase.TogglePaid(r.Context(), actorID, paymentID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		default:
			response.InternalServerError(w, "Failed to update payment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment status updated successfully", payment)
}
