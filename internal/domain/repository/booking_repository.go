package repository

import (
	"time"

	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByCancelToken(db *gorm.DB, token string) (*entity.Booking, error)
	FindAll(db *gorm.DB, status *entity.BookingStatus) ([]entity.Booking, error)
	FindByCheckIn(db *gorm.DB, day time.Time, status entity.BookingStatus) ([]entity.Booking, error)
	FindByCheckOut(db *gorm.DB, day time.Time, status entity.BookingStatus) ([]entity.Booking, error)
	FindUpcoming(db *gorm.DB, from time.Time, status entity.BookingStatus) ([]entity.Booking, error)
	ListActiveIntervals(db *gorm.DB, statuses []entity.BookingStatus, excludeID *uuid.UUID) ([]availability.BookedInterval, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, expected, next entity.BookingStatus) (*entity.Booking, error)
	UpdateDates(db *gorm.DB, id uuid.UUID, expected entity.BookingStatus, checkIn, checkOut time.Time) (*entity.Booking, error)
}
