package usecase

import (
	"context"
	"testing"

	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_ListAndToggle(t *testing.T) {
	db := newTestDB(t)
	paymentRepo := repository.NewPaymentRepository()
	uc := NewPaymentUsecase(db, newTestLogger(), paymentRepo)
	ctx := context.Background()

	august := seedBooking(t, db, "2024-08-01", "2024-08-08", entity.BookingStatusApproved)
	june := seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)
	for _, b := range []*entity.Booking{august, june} {
		require.NoError(t, paymentRepo.Create(db, &entity.BookingPayment{BookingID: b.ID, BookingRef: b.BookingCode}))
	}

	list, err := uc.ListPayments(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, june.BookingCode, list.Payments[0].BookingRef)
	assert.Equal(t, "2024-06-01", list.Payments[0].CheckIn)
	assert.Equal(t, june.GuestName, list.Payments[0].GuestName)
	assert.False(t, list.Payments[0].IsPaid)

	list, err = uc.ListPayments(ctx, "DESC")
	require.NoError(t, err)
	assert.Equal(t, august.BookingCode, list.Payments[0].BookingRef)

	_, err = uc.ListPayments(ctx, "sideways")
	assert.ErrorIs(t, err, ErrInvalidSort)

	manager := uuid.New()
	toggled, err := uc.TogglePaid(ctx, manager, list.Payments[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPaid)
	require.NotNil(t, toggled.UpdatedBy)
	assert.Equal(t, manager, *toggled.UpdatedBy)

	_, err = uc.TogglePaid(ctx, manager, uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
