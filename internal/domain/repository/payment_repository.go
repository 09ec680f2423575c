package repository

import (
	"cottage-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	// Create is a no-op when the booking already has a payment row.
	Create(db *gorm.DB, payment *entity.BookingPayment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.BookingPayment, error)
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) (*entity.BookingPayment, error)
	FindAll(db *gorm.DB, ascending bool) ([]entity.BookingPayment, error)
	// TogglePaid flips is_paid in one statement and returns ErrNotFound for an unknown id.
	TogglePaid(db *gorm.DB, id uuid.UUID, actorID uuid.UUID) (*entity.BookingPayment, error)
}
