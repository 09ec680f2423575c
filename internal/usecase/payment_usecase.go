package usecase

import (
	"context"
	"errors"
	"strings"

	"cottage-booking/internal/converter"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidSort     = errors.New("sort must be asc or desc")
)

type PaymentUsecase interface {
	ListPayments(ctx context.Context, sort string) (*dto.PaymentListResponse, error)
	TogglePaid(ctx context.Context, actorID, paymentID uuid.UUID) (*dto.PaymentResponse, error)
}

type paymentUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	paymentRepo repository.PaymentRepository
}

func NewPaymentUsecase(db *gorm.DB, log *logrus.Logger, paymentRepo repository.PaymentRepository) PaymentUsecase {
	return &paymentUsecase{
		db:          db,
		log:         log,
		paymentRepo: paymentRepo,
	}
}

// ListPayments orders by check-in date, ascending unless sort is "desc".
func (u *paymentUsecase) ListPayments(ctx context.Context, sort string) (*dto.PaymentListResponse, error) {
	var ascending bool
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "", "asc":
		ascending = true
	case "desc":
		ascending = false
	default:
		return nil, ErrInvalidSort
	}

	payments, err := u.paymentRepo.FindAll(u.db.WithContext(ctx), ascending)
	if err != nil {
		u.log.Warnf("Failed to list payments: %+v", err)
		return nil, err
	}

	return &dto.PaymentListResponse{
		Payments: converter.PaymentsToResponses(payments),
		Total:    len(payments),
	}, nil
}

// TogglePaid flips the paid flag in a single UPDATE.
func (u *paymentUsecase) TogglePaid(ctx context.Context, actorID, paymentID uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := u.paymentRepo.TogglePaid(u.db.WithContext(ctx), paymentID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		u.log.Warnf("Failed to toggle payment %s: %+v", paymentID, err)
		return nil, err
	}

	u.log.Infof("Payment %s marked paid=%t by %s", payment.BookingRef, payment.IsPaid, actorID)
	return converter.PaymentToResponse(payment), nil
}
