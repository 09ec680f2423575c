package usecase

import (
	"context"
	"testing"

	"cottage-booking/config"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBooking(t *testing.T, db *gorm.DB, from, to string, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	checkIn, err := availability.ParseDate(from)
	require.NoError(t, err)
	checkOut, err := availability.ParseDate(to)
	require.NoError(t, err)

	b := &entity.Booking{
		BookingCode: "BK-" + uuid.NewString()[:8],
		GuestName:   "Ada Guest",
		GuestEmail:  "ada@example.com",
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Adults:      2,
		Status:      status,
		CancelToken: uuid.NewString(),
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func newCalendarUsecase(t *testing.T) (CalendarUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	uc := NewCalendarUsecase(db, newTestLogger(), repository.NewBookingRepository(), config.BookingConfig{MaxStayNights: 21})
	return uc, db
}

func strPtr(s string) *string { return &s }

func TestGetCalendar_ClassifiesMonth(t *testing.T) {
	uc, db := newCalendarUsecase(t)
	seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-06-08", "2024-06-12", entity.BookingStatusPending)
	seedBooking(t, db, "2024-06-20", "2024-06-25", entity.BookingStatusCancelled)

	resp, err := uc.GetCalendar(context.Background(), "2024-06", "")
	require.NoError(t, err)
	require.Len(t, resp.Days, 30)
	assert.Equal(t, "2024-06", resp.From)
	assert.Equal(t, "2024-06", resp.To)

	byDate := make(map[string]dto.CalendarDay, len(resp.Days))
	for _, d := range resp.Days {
		byDate[d.Date] = d
	}
	assert.Equal(t, "2024-06-01", resp.Days[0].Date)
	assert.Equal(t, availability.CheckinOnly.String(), byDate["2024-06-01"].State)
	assert.Equal(t, availability.Interior.String(), byDate["2024-06-03"].State)
	assert.Equal(t, availability.FullyBlockedEdge.String(), byDate["2024-06-08"].State)
	assert.True(t, byDate["2024-06-08"].Disabled)
	assert.Equal(t, availability.CheckoutOnly.String(), byDate["2024-06-12"].State)
	assert.True(t, byDate["2024-06-12"].CanCheckIn)
	assert.False(t, byDate["2024-06-12"].CanCheckOut)
	assert.Equal(t, availability.Free.String(), byDate["2024-06-22"].State)
}

func TestGetCalendar_InvalidRange(t *testing.T) {
	uc, _ := newCalendarUsecase(t)
	ctx := context.Background()

	_, err := uc.GetCalendar(ctx, "June 2024", "")
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = uc.GetCalendar(ctx, "2024-06", "2024-05")
	assert.ErrorIs(t, err, ErrInvalidMonthRange)

	_, err = uc.GetCalendar(ctx, "2024-06", "2026-06")
	assert.ErrorIs(t, err, ErrInvalidMonthRange)

	resp, err := uc.GetCalendar(ctx, "2024-12", "2025-01")
	require.NoError(t, err)
	assert.Len(t, resp.Days, 62)
}

func TestCheckAvailability(t *testing.T) {
	uc, db := newCalendarUsecase(t)
	seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)
	ctx := context.Background()

	resp, err := uc.CheckAvailability(ctx, "2024-06-05", "2024-06-10")
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, string(availability.ReasonOverlap), resp.Reason)
	assert.NotEmpty(t, resp.Message)

	resp, err = uc.CheckAvailability(ctx, "2024-06-08", "2024-06-10")
	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, 2, resp.Nights)
	assert.Empty(t, resp.Reason)

	_, err = uc.CheckAvailability(ctx, "08/06/2024", "2024-06-10")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSelect_ClickSequence(t *testing.T) {
	uc, db := newCalendarUsecase(t)
	seedBooking(t, db, "2024-06-01", "2024-06-08", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-06-15", "2024-06-18", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-06-18", "2024-06-22", entity.BookingStatusPending)
	ctx := context.Background()

	t.Run("interior first click is refused", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{Day: "2024-06-03"})
		require.NoError(t, err)
		assert.Nil(t, resp.From)
		assert.Equal(t, string(availability.ReasonOverlap), resp.Reason)
	})

	t.Run("blocked edge first click is refused", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{Day: "2024-06-18"})
		require.NoError(t, err)
		assert.Nil(t, resp.From)
		assert.Equal(t, string(availability.ReasonEdgeBlocked), resp.Reason)
	})

	t.Run("checkout day starts a selection", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{Day: "2024-06-08"})
		require.NoError(t, err)
		require.NotNil(t, resp.From)
		assert.Equal(t, "2024-06-08", *resp.From)
		assert.False(t, resp.Complete)
	})

	t.Run("second click on the start clears", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{From: strPtr("2024-06-08"), Day: "2024-06-08"})
		require.NoError(t, err)
		assert.Nil(t, resp.From)
		assert.Nil(t, resp.To)
	})

	t.Run("second click completes up to an arrival day", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{From: strPtr("2024-06-08"), Day: "2024-06-15"})
		require.NoError(t, err)
		assert.True(t, resp.Complete)
		assert.Equal(t, "2024-06-15", *resp.To)
	})

	t.Run("range across a booking keeps the start", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{From: strPtr("2024-06-08"), Day: "2024-06-25"})
		require.NoError(t, err)
		require.NotNil(t, resp.From)
		assert.Equal(t, "2024-06-08", *resp.From)
		assert.Nil(t, resp.To)
		assert.Equal(t, string(availability.ReasonOverlap), resp.Reason)
	})

	t.Run("click after a complete range starts over", func(t *testing.T) {
		resp, err := uc.Select(ctx, &dto.CalendarSelectionRequest{
			From: strPtr("2024-06-08"),
			To:   strPtr("2024-06-12"),
			Day:  "2024-06-25",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-06-25", *resp.From)
		assert.Nil(t, resp.To)
	})
}
