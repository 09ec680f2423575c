package usecase

import (
	"context"
	"errors"
	"strings"

	"cottage-booking/internal/converter"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/domain/repository"
	"cottage-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidReviewStatus    = errors.New("status must be approved or rejected")
)

type RecommendationUsecase interface {
	Submit(ctx context.Context, req *dto.CreateRecommendationRequest) (*dto.RecommendationResponse, error)
	ListApproved(ctx context.Context, category string) (*dto.RecommendationListResponse, error)
	ListAll(ctx context.Context, status string) (*dto.RecommendationListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RecommendationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRecommendationRequest) (*dto.RecommendationResponse, error)
	Review(ctx context.Context, id uuid.UUID, status string) (*dto.RecommendationResponse, error)
}

type recommendationUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	recRepo  repository.RecommendationRepository
	notifier service.Notifier
}

func NewRecommendationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recRepo repository.RecommendationRepository,
	notifier service.Notifier,
) RecommendationUsecase {
	return &recommendationUsecase{
		db:       db,
		log:      log,
		recRepo:  recRepo,
		notifier: notifier,
	}
}

// Submit stores a guest tip as pending and tells the admins about it.
func (u *recommendationUsecase) Submit(ctx context.Context, req *dto.CreateRecommendationRequest) (*dto.RecommendationResponse, error) {
	rec := &entity.Recommendation{
		Name:        strings.TrimSpace(req.Name),
		Address:     trimOptional(req.Address),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Tags:        cleanList(req.Tags),
		Photos:      cleanList(req.Photos),
		SubmittedBy: trimOptional(req.SubmittedBy),
		Status:      entity.RecommendationStatusPending,
	}

	if err := u.recRepo.Create(u.db.WithContext(ctx), rec); err != nil {
		u.log.Warnf("Failed to create recommendation: %+v", err)
		return nil, err
	}

	u.log.Infof("Recommendation submitted: id=%s, category=%s", rec.ID, rec.Category)
	u.notifier.NotifyAdminsOfRecommendation(ctx, *rec)

	return converter.RecommendationToResponse(rec), nil
}

func (u *recommendationUsecase) ListApproved(ctx context.Context, category string) (*dto.RecommendationListResponse, error) {
	status := entity.RecommendationStatusApproved
	return u.list(ctx, &status, strings.TrimSpace(category))
}

func (u *recommendationUsecase) ListAll(ctx context.Context, status string) (*dto.RecommendationListResponse, error) {
	var filter *entity.RecommendationStatus
	if status != "" {
		s := entity.RecommendationStatus(strings.ToLower(strings.TrimSpace(status)))
		switch s {
		case entity.RecommendationStatusPending, entity.RecommendationStatusApproved, entity.RecommendationStatusRejected:
		default:
			return nil, ErrInvalidStatus
		}
		filter = &s
	}
	return u.list(ctx, filter, "")
}

func (u *recommendationUsecase) list(ctx context.Context, status *entity.RecommendationStatus, category string) (*dto.RecommendationListResponse, error) {
	recs, err := u.recRepo.FindAll(u.db.WithContext(ctx), status, category)
	if err != nil {
		u.log.Warnf("Failed to list recommendations: %+v", err)
		return nil, err
	}
	return &dto.RecommendationListResponse{
		Recommendations: converter.RecommendationsToResponses(recs),
		Total:           len(recs),
	}, nil
}

func (u *recommendationUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.RecommendationResponse, error) {
	rec, err := u.recRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find recommendation %s: %+v", id, err)
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecommendationNotFound
	}
	return converter.RecommendationToResponse(rec), nil
}

// Update edits content only. Moderation status changes go through Review.
func (u *recommendationUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRecommendationRequest) (*dto.RecommendationResponse, error) {
	rec, err := u.recRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find recommendation %s: %+v", id, err)
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecommendationNotFound
	}

	rec.Name = strings.TrimSpace(req.Name)
	rec.Address = trimOptional(req.Address)
	rec.Description = strings.TrimSpace(req.Description)
	rec.Category = strings.TrimSpace(req.Category)
	rec.Tags = cleanList(req.Tags)
	rec.Photos = cleanList(req.Photos)

	if err := u.recRepo.Update(u.db.WithContext(ctx), rec); err != nil {
		u.log.Warnf("Failed to update recommendation %s: %+v", id, err)
		return nil, err
	}

	return converter.RecommendationToResponse(rec), nil
}

func (u *recommendationUsecase) Review(ctx context.Context, id uuid.UUID, status string) (*dto.RecommendationResponse, error) {
	next := entity.RecommendationStatus(strings.ToLower(strings.TrimSpace(status)))
	if next != entity.RecommendationStatusApproved && next != entity.RecommendationStatusRejected {
		return nil, ErrInvalidReviewStatus
	}

	rows, err := u.recRepo.UpdateStatus(u.db.WithContext(ctx), id, next)
	if err != nil {
		u.log.Warnf("Failed to review recommendation %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrRecommendationNotFound
	}

	u.log.Infof("Recommendation reviewed: id=%s, status=%s", id, next)
	return u.Get(ctx, id)
}

// cleanList trims entries and drops blanks.
func cleanList(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
