package usecase

import (
	"context"
	"errors"
	"strings"

	"cottage-booking/internal/converter"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrSubscriberNotFound = errors.New("subscriber not found")

type SubscriberUsecase interface {
	Subscribe(ctx context.Context, req *dto.SubscribeRequest) (*dto.SubscriberResponse, error)
	Unsubscribe(ctx context.Context, id uuid.UUID) error
}

type subscriberUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	subscriberRepo repository.SubscriberRepository
}

func NewSubscriberUsecase(db *gorm.DB, log *logrus.Logger, subscriberRepo repository.SubscriberRepository) SubscriberUsecase {
	return &subscriberUsecase{
		db:             db,
		log:            log,
		subscriberRepo: subscriberRepo,
	}
}

// Subscribe is idempotent: an existing address is re-activated.
func (u *subscriberUsecase) Subscribe(ctx context.Context, req *dto.SubscribeRequest) (*dto.SubscriberResponse, error) {
	subscriber := &entity.Subscriber{
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		Status: entity.SubscriberStatusActive,
	}
	if err := u.subscriberRepo.Upsert(u.db.WithContext(ctx), subscriber); err != nil {
		u.log.Warnf("Failed to subscribe %s: %+v", req.Email, err)
		return nil, err
	}
	return converter.SubscriberToResponse(subscriber), nil
}

func (u *subscriberUsecase) Unsubscribe(ctx context.Context, id uuid.UUID) error {
	rows, err := u.subscriberRepo.UpdateStatus(u.db.WithContext(ctx), id, entity.SubscriberStatusUnsubscribed)
	if err != nil {
		u.log.Warnf("Failed to unsubscribe %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}
