package handler

import (
	"encoding/json"
	"net/http"

	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"
	"cottage-booking/pkg/validator"
)

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
	validator       *validator.CustomValidator
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase, validator *validator.CustomValidator) *CalendarHandler {
	return &CalendarHandler{
		calendarUsecase: calendarUsecase,
		validator:       validator,
	}
}

// GetCalendar handles GET /calendar?from=YYYY-MM&to=YYYY-MM
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" {
		response.BadRequest(w, "from is required")
		return
	}

	calendar, err := h.calendarUsecase.GetCalendar(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeBookingError(w, err, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

// CheckAvailability handles GET /availability?check_in=YYYY-MM-DD&check_out=YYYY-MM-DD
func (h *CalendarHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("check_in") == "" || q.Get("check_out") == "" {
		response.BadRequest(w, "check_in and check_out are required")
		return
	}

	result, err := h.calendarUsecase.CheckAvailability(r.Context(), q.Get("check_in"), q.Get("check_out"))
	if err != nil {
		writeBookingError(w, err, "Failed to check availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability checked", result)
}

func (h *CalendarHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req dto.CalendarSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	selection, err := h.calendarUsecase.Select(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to update selection")
		return
	}

	response.Success(w, http.StatusOK, "Selection updated", selection)
}
