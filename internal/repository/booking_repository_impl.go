package repository

import (
	"errors"
	"time"

	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// FindByCancelToken matches the token exactly; it is never transformed.
func (r *bookingRepository) FindByCancelToken(db *gorm.DB, token string) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Where("cancel_token = ?", token).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindAll(db *gorm.DB, status *entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.Model(&entity.Booking{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByCheckIn(db *gorm.DB, day time.Time, status entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("check_in = ? AND status = ?", availability.Normalize(day), status).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByCheckOut(db *gorm.DB, day time.Time, status entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("check_out = ? AND status = ?", availability.Normalize(day), status).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindUpcoming returns stays that have not ended before from, earliest arrival first.
func (r *bookingRepository) FindUpcoming(db *gorm.DB, from time.Time, status entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("check_out >= ? AND status = ?", availability.Normalize(from), status).
		Order("check_in ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListActiveIntervals reads the current occupancy. Callers committing a date
// change must run it inside the same transaction as the write.
func (r *bookingRepository) ListActiveIntervals(db *gorm.DB, statuses []entity.BookingStatus, excludeID *uuid.UUID) ([]availability.BookedInterval, error) {
	type row struct {
		ID       uuid.UUID
		CheckIn  time.Time
		CheckOut time.Time
	}
	var rows []row

	query := db.Model(&entity.Booking{}).
		Select("id, check_in, check_out").
		Where("status IN ?", statuses)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Order("check_in ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	intervals := make([]availability.BookedInterval, len(rows))
	for i, rw := range rows {
		intervals[i] = availability.BookedInterval{
			BookingID: rw.ID,
			Interval:  availability.NewInterval(rw.CheckIn, rw.CheckOut),
		}
	}
	return intervals, nil
}

// UpdateStatus moves a booking from expected to next only if it is still in
// expected. A miss is reported as ErrNotFound or ErrStaleState.
func (r *bookingRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, expected, next entity.BookingStatus) (*entity.Booking, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.missReason(db, id)
	}
	return r.FindByID(db, id)
}

// UpdateDates rewrites the stay dates under the same status precondition as UpdateStatus.
func (r *bookingRepository) UpdateDates(db *gorm.DB, id uuid.UUID, expected entity.BookingStatus, checkIn, checkOut time.Time) (*entity.Booking, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{
			"check_in":   availability.Normalize(checkIn),
			"check_out":  availability.Normalize(checkOut),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.missReason(db, id)
	}
	return r.FindByID(db, id)
}

func (r *bookingRepository) missReason(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&entity.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainRepo.ErrNotFound
	}
	return domainRepo.ErrStaleState
}
