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

type RecommendationHandler struct {
	recommendationUsecase usecase.RecommendationUsecase
	validator             *validator.CustomValidator
}

func NewRecommendationHandler(recommendationUsecase usecase.RecommendationUsecase, validator *validator.CustomValidator) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationUsecase: recommendationUsecase,
		validator:             validator,
	}
}

func (h *RecommendationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rec, err := h.recommendationUsecase.Submit(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to submit recommendation")
		return
	}

	response.Success(w, http.StatusCreated, "Recommendation submitted for review", rec)
}

// ListApproved is the public list, optionally narrowed by ?category=.
func (h *RecommendationHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recommendationUsecase.ListApproved(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		response.InternalServerError(w, "Failed to get recommendations")
		return
	}

	response.Success(w, http.StatusOK, "Recommendations retrieved successfully", recs)
}

func (h *RecommendationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recommendationUsecase.ListAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatus:
			response.BadRequest(w, "Unknown recommendation status")
		default:
			response.InternalServerError(w, "Failed to get recommendations")
		}
		return
	}

	response.Success(w, http.StatusOK, "Recommendations retrieved successfully", recs)
}

func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := recommendationIDFromPath(w, r)
	if !ok {
		return
	}

	rec, err := h.recommendationUsecase.Get(r.Context(), id)
	if err != nil {
		writeRecommendationError(w, err, "Failed to get recommendation")
		return
	}

	response.Success(w, http.StatusOK, "Recommendation retrieved successfully", rec)
}

func (h *RecommendationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := recommendationIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rec, err := h.recommendationUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeRecommendationError(w, err, "Failed to update recommendation")
		return
	}

	response.Success(w, http.StatusOK, "Recommendation updated successfully", rec)
}

func (h *RecommendationHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := recommendationIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.ReviewRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rec, err := h.recommendationUsecase.Review(r.Context(), id, req.Status)
	if err != nil {
		writeRecommendationError(w, err, "Failed to review recommendation")
		return
	}

	response.Success(w, http.StatusOK, "Recommendation reviewed successfully", rec)
}

func writeRecommendationError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrRecommendationNotFound:
		response.NotFound(w, "Recommendation not found")
	case usecase.ErrInvalidReviewStatus:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func recommendationIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid recommendation ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
