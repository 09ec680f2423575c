package handler

import (
	"encoding/json"
	"net/http"

	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"
	"cottage-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SubscriberHandler struct {
	subscriberUsecase usecase.SubscriberUsecase
	validator         *validator.CustomValidator
}

func NewSubscriberHandler(subscriberUsecase usecase.SubscriberUsecase, validator *validator.CustomValidator) *SubscriberHandler {
	return &SubscriberHandler{
		subscriberUsecase: subscriberUsecase,
		validator:         validator,
	}
}

func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subscriber, err := h.subscriberUsecase.Subscribe(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to subscribe")
		return
	}

	response.Success(w, http.StatusCreated, "Subscribed successfully", subscriber)
}

func (h *SubscriberHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid subscriber ID", nil)
		return
	}

	if err := h.subscriberUsecase.Unsubscribe(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrSubscriberNotFound:
			response.NotFound(w, "Subscriber not found")
		default:
			response.InternalServerError(w, "Failed to unsubscribe")
		}
		return
	}

	response.Success(w, http.StatusOK, "Unsubscribed successfully", nil)
}
