package repository

import (
	"errors"

	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *entity.BookingPayment) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoNothing: true,
	}).Create(payment).Error
}

func (r *paymentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.BookingPayment, error) {
	var payment entity.BookingPayment
	err := db.Preload("Booking").Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) (*entity.BookingPayment, error) {
	var payment entity.BookingPayment
	err := db.Where("booking_id = ?", bookingID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindAll lists payments ordered by the booking's check-in date.
func (r *paymentRepository) FindAll(db *gorm.DB, ascending bool) ([]entity.BookingPayment, error) {
	var payments []entity.BookingPayment
	err := db.Joins("Booking").
		Order(clause.OrderByColumn{
			Column: clause.Column{Table: "Booking", Name: "check_in"},
			Desc:   !ascending,
		}).
		Order("booking_payments.booking_ref ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) TogglePaid(db *gorm.DB, id uuid.UUID, actorID uuid.UUID) (*entity.BookingPayment, error) {
	result := db.Model(&entity.BookingPayment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_paid":    gorm.Expr("NOT is_paid"),
			"updated_by": actorID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainRepo.ErrNotFound
	}
	return r.FindByID(db, id)
}
