package repository

import (
	"testing"

	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_CreateIsIdempotentPerBooking(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository()
	b := seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)

	require.NoError(t, repo.Create(db, &entity.BookingPayment{BookingID: b.ID, BookingRef: b.BookingCode}))
	require.NoError(t, repo.Create(db, &entity.BookingPayment{BookingID: b.ID, BookingRef: b.BookingCode}))

	var count int64
	require.NoError(t, db.Model(&entity.BookingPayment{}).Where("booking_id = ?", b.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByBookingID(db, b.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.IsPaid)

	missing, err := repo.FindByBookingID(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPaymentRepository_FindAllOrdersByCheckIn(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository()
	late := seedBooking(t, db, "2024-08-01", "2024-08-08", entity.BookingStatusApproved)
	early := seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)
	for _, b := range []*entity.Booking{late, early} {
		require.NoError(t, repo.Create(db, &entity.BookingPayment{BookingID: b.ID, BookingRef: b.BookingCode}))
	}

	asc, err := repo.FindAll(db, true)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, early.ID, asc[0].BookingID)
	require.NotNil(t, asc[0].Booking)
	assert.Equal(t, early.GuestName, asc[0].Booking.GuestName)

	desc, err := repo.FindAll(db, false)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, late.ID, desc[0].BookingID)
}

func TestPaymentRepository_TogglePaid(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository()
	b := seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)
	p := &entity.BookingPayment{BookingID: b.ID, BookingRef: b.BookingCode}
	require.NoError(t, repo.Create(db, p))
	actor := uuid.New()

	toggled, err := repo.TogglePaid(db, p.ID, actor)
	require.NoError(t, err)
	assert.True(t, toggled.IsPaid)
	require.NotNil(t, toggled.UpdatedBy)
	assert.Equal(t, actor, *toggled.UpdatedBy)

	toggled, err = repo.TogglePaid(db, p.ID, actor)
	require.NoError(t, err)
	assert.False(t, toggled.IsPaid)

	_, err = repo.TogglePaid(db, uuid.New(), actor)
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)
}
