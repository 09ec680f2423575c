package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"
	"cottage-booking/internal/repository"
	"cottage-booking/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Booking{},
		&entity.Approval{},
		&entity.Cancellation{},
		&entity.Recommendation{},
		&entity.Subscriber{},
		&entity.BookingPayment{},
	))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// fakeNotifier records what would have been sent.
type fakeNotifier struct {
	mu       sync.Mutex
	events   []string
	cleaners []time.Time
	reminded []string
	alerts   [][]service.ForecastDay
	alerted  []string
}

func (n *fakeNotifier) record(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) NotifyApprovers(ctx context.Context, booking entity.Booking) {
	n.record("approvers:new:" + booking.BookingCode)
}

func (n *fakeNotifier) NotifyGuestOfDecision(ctx context.Context, booking entity.Booking, decision entity.ApprovalAction, comment *string) {
	n.record("guest:" + string(decision) + ":" + booking.BookingCode)
}

func (n *fakeNotifier) NotifyGuestOfCancellation(ctx context.Context, booking entity.Booking, reason string) {
	n.record("guest:cancelled:" + booking.BookingCode)
}

func (n *fakeNotifier) NotifyApproversOfCancellation(ctx context.Context, booking entity.Booking, reason string) {
	n.record("approvers:cancelled:" + booking.BookingCode)
}

func (n *fakeNotifier) NotifyCleanersOfCheckouts(ctx context.Context, day time.Time, bookings []entity.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleaners = append(n.cleaners, day)
}

func (n *fakeNotifier) RemindGuestOfArrival(ctx context.Context, booking entity.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminded = append(n.reminded, booking.GuestEmail)
}

func (n *fakeNotifier) NotifyAdminsOfRecommendation(ctx context.Context, rec entity.Recommendation) {
	n.record("admins:recommendation:" + rec.Name)
}

func (n *fakeNotifier) SendSunnyWeekAlert(ctx context.Context, subscribers []entity.Subscriber, week []service.ForecastDay) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, week)
	for _, sub := range subscribers {
		n.alerted = append(n.alerted, sub.Email)
	}
}

func (n *fakeNotifier) eventList() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type bookingFixture struct {
	db       *gorm.DB
	uc       *bookingUsecase
	notifier *fakeNotifier
	repo     domainRepo.BookingRepository
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	_, rdb := newTestRedis(t)

	locker := service.NewCalendarLockService(rdb, log, 5*time.Second, 5*time.Second)
	t.Cleanup(locker.Stop)

	notifier := &fakeNotifier{}
	bookingRepo := repository.NewBookingRepository()
	uc := NewBookingUsecase(
		db,
		log,
		bookingRepo,
		repository.NewApprovalRepository(),
		repository.NewCancellationRepository(),
		repository.NewPaymentRepository(),
		locker,
		notifier,
		config.BookingConfig{MaxStayNights: 21},
	).(*bookingUsecase)
	uc.now = func() time.Time { return fixedNow }

	return &bookingFixture{db: db, uc: uc, notifier: notifier, repo: bookingRepo}
}

func bookingRequest(checkIn, checkOut string) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		GuestName:  "Ada Guest",
		GuestEmail: "Ada@Example.com",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Adults:     2,
	}
}

func (f *bookingFixture) submit(t *testing.T, checkIn, checkOut string) *dto.BookingResponse {
	t.Helper()
	resp, err := f.uc.SubmitBooking(context.Background(), bookingRequest(checkIn, checkOut))
	require.NoError(t, err)
	return resp
}

func (f *bookingFixture) cancelToken(t *testing.T, id uuid.UUID) string {
	t.Helper()
	b, err := f.repo.FindByID(f.db, id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.CancelToken
}

func requireRejection(t *testing.T, err error, reason availability.Reason) {
	t.Helper()
	rej, ok := availability.IsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, reason, rej.Reason)
}

func TestSubmitBooking_CreatesPendingBooking(t *testing.T) {
	f := newBookingFixture(t)

	resp := f.submit(t, "2024-06-01", "2024-06-08")

	assert.Equal(t, string(entity.BookingStatusPending), resp.Status)
	assert.Equal(t, 7, resp.Nights)
	assert.Equal(t, "ada@example.com", resp.GuestEmail)
	assert.True(t, strings.HasPrefix(resp.BookingCode, "BK-20240601-"), resp.BookingCode)
	assert.NotEmpty(t, f.cancelToken(t, resp.ID))
	assert.Equal(t, []string{"approvers:new:" + resp.BookingCode}, f.notifier.eventList())
}

func TestSubmitBooking_Rejections(t *testing.T) {
	f := newBookingFixture(t)
	f.submit(t, "2024-06-01", "2024-06-08")

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		reason   availability.Reason
	}{
		{"overlap", "2024-06-05", "2024-06-10", availability.ReasonOverlap},
		{"same day", "2024-06-20", "2024-06-20", availability.ReasonSameDaySelection},
		{"reversed", "2024-06-20", "2024-06-18", availability.ReasonInvalidOrder},
		{"too long", "2024-07-01", "2024-07-23", availability.ReasonTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.SubmitBooking(context.Background(), bookingRequest(tt.checkIn, tt.checkOut))
			requireRejection(t, err, tt.reason)
		})
	}
}

func TestSubmitBooking_SameDayChangeover(t *testing.T) {
	f := newBookingFixture(t)
	f.submit(t, "2024-06-01", "2024-06-08")

	before := f.submit(t, "2024-05-25", "2024-06-01")
	after := f.submit(t, "2024-06-08", "2024-06-12")

	assert.Equal(t, "2024-06-01", before.CheckOut)
	assert.Equal(t, "2024-06-08", after.CheckIn)
}

func TestSubmitBooking_InputErrors(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.uc.SubmitBooking(context.Background(), bookingRequest("2024-04-20", "2024-04-25"))
	assert.ErrorIs(t, err, ErrCheckInInPast)

	_, err = f.uc.SubmitBooking(context.Background(), bookingRequest("2024-13-01", "2024-13-05"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	req := bookingRequest("2024-06-01", "2024-06-05")
	req.Adults = 0
	_, err = f.uc.SubmitBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmptyParty)
}

func TestSubmitBooking_ConcurrentOverlapsCommitOnce(t *testing.T) {
	f := newBookingFixture(t)

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.SubmitBooking(context.Background(), bookingRequest("2024-06-01", "2024-06-08"))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		requireRejection(t, err, availability.ReasonOverlap)
	}
	assert.Equal(t, 1, ok)

	var count int64
	require.NoError(t, f.db.Model(&entity.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBookingLifecycle_ApproveThenGuestCancel(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	approver := uuid.New()

	booking := f.submit(t, "2024-06-01", "2024-06-08")

	comment := " ok "
	approved, err := f.uc.ApproveBooking(ctx, approver, booking.ID, &comment)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusApproved), approved.Status)

	payment, err := repository.NewPaymentRepository().FindByBookingID(f.db, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.False(t, payment.IsPaid)
	assert.Equal(t, booking.BookingCode, payment.BookingRef)

	token := f.cancelToken(t, booking.ID)
	cancelled, err := f.uc.CancelBookingByToken(ctx, token, "change of plans")
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCancelled), cancelled.Status)

	_, err = f.uc.CancelBookingByToken(ctx, token, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	history, err := f.uc.GetBookingHistory(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, history.Approvals, 1)
	assert.Equal(t, approver, history.Approvals[0].UserID)
	assert.Equal(t, string(entity.ApprovalActionApproved), history.Approvals[0].Action)
	require.NotNil(t, history.Approvals[0].Comment)
	assert.Equal(t, "ok", *history.Approvals[0].Comment)
	require.Len(t, history.Cancellations, 1)
	assert.Equal(t, "change of plans", history.Cancellations[0].Reason)
	assert.Nil(t, history.Cancellations[0].CancelledBy)

	preview, err := f.uc.GetCancellationPreview(ctx, token)
	require.NoError(t, err)
	assert.False(t, preview.Cancellable)
	require.NotNil(t, preview.CancelReason)
	assert.Equal(t, "change of plans", *preview.CancelReason)

	code := booking.BookingCode
	assert.Equal(t, []string{
		"approvers:new:" + code,
		"guest:approved:" + code,
		"guest:cancelled:" + code,
		"approvers:cancelled:" + code,
	}, f.notifier.eventList())

	// The freed dates can be booked again.
	f.submit(t, "2024-06-01", "2024-06-08")
}

func TestBookingLifecycle_TerminalStatesAreImmutable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	approver := uuid.New()

	booking := f.submit(t, "2024-06-01", "2024-06-08")
	_, err := f.uc.RejectBooking(ctx, approver, booking.ID, nil)
	require.NoError(t, err)

	_, err = f.uc.ApproveBooking(ctx, approver, booking.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.uc.RejectBooking(ctx, approver, booking.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.uc.CancelBooking(ctx, approver, booking.ID, "no longer needed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	checkOut := "2024-06-09"
	_, err = f.uc.EditBookingDates(ctx, approver, booking.ID, &dto.EditBookingDatesRequest{CheckOut: &checkOut})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := f.uc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusRejected), got.Status)
	assert.Equal(t, "2024-06-08", got.CheckOut)

	history, err := f.uc.GetBookingHistory(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, history.Approvals, 1)
	assert.Empty(t, history.Cancellations)

	payment, err := repository.NewPaymentRepository().FindByBookingID(f.db, booking.ID)
	require.NoError(t, err)
	assert.Nil(t, payment)
}

func TestBookingLifecycle_PendingCannotBeCancelled(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.submit(t, "2024-06-01", "2024-06-08")

	_, err := f.uc.CancelBooking(context.Background(), uuid.New(), booking.ID, "duplicate")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBooking_RequiresReasonAndActor(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	booking := f.submit(t, "2024-06-01", "2024-06-08")
	_, err := f.uc.ApproveBooking(ctx, uuid.New(), booking.ID, nil)
	require.NoError(t, err)

	_, err = f.uc.CancelBooking(ctx, uuid.New(), booking.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.uc.CancelBooking(ctx, uuid.Nil, booking.ID, "flooding")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	actor := uuid.New()
	cancelled, err := f.uc.CancelBooking(ctx, actor, booking.ID, "flooding")
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCancelled), cancelled.Status)

	history, err := f.uc.GetBookingHistory(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, history.Cancellations, 1)
	require.NotNil(t, history.Cancellations[0].CancelledBy)
	assert.Equal(t, actor, *history.Cancellations[0].CancelledBy)
}

func TestCancelBookingByToken_UnknownToken(t *testing.T) {
	f := newBookingFixture(t)
	f.submit(t, "2024-06-01", "2024-06-08")

	_, err := f.uc.CancelBookingByToken(context.Background(), uuid.NewString(), "change of plans")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.uc.GetCancellationPreview(context.Background(), "")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestEditBookingDates_OverlapLeavesBookingUnchanged(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	x := f.submit(t, "2024-07-01", "2024-07-10")
	y := f.submit(t, "2024-07-10", "2024-07-20")
	for _, id := range []uuid.UUID{x.ID, y.ID} {
		_, err := f.uc.ApproveBooking(ctx, uuid.New(), id, nil)
		require.NoError(t, err)
	}

	checkOut := "2024-07-12"
	_, err := f.uc.EditBookingDates(ctx, uuid.New(), x.ID, &dto.EditBookingDatesRequest{CheckOut: &checkOut})
	requireRejection(t, err, availability.ReasonOverlap)

	got, err := f.uc.GetBooking(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", got.CheckIn)
	assert.Equal(t, "2024-07-10", got.CheckOut)
	assert.Equal(t, string(entity.BookingStatusApproved), got.Status)
}

func TestEditBookingDates_ExcludesItselfAndKeepsStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	x := f.submit(t, "2024-06-01", "2024-06-08")
	_, err := f.uc.ApproveBooking(ctx, uuid.New(), x.ID, nil)
	require.NoError(t, err)

	checkIn := "2024-06-03"
	edited, err := f.uc.EditBookingDates(ctx, uuid.New(), x.ID, &dto.EditBookingDatesRequest{CheckIn: &checkIn})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", edited.CheckIn)
	assert.Equal(t, "2024-06-08", edited.CheckOut)
	assert.Equal(t, string(entity.BookingStatusApproved), edited.Status)

	_, err = f.uc.EditBookingDates(ctx, uuid.New(), x.ID, &dto.EditBookingDatesRequest{})
	assert.ErrorIs(t, err, ErrNoDateChange)
}

func TestEditBookingDates_MaxStayIsConfigurable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	x := f.submit(t, "2024-06-01", "2024-06-08")

	checkOut := "2024-06-30"
	edited, err := f.uc.EditBookingDates(ctx, uuid.New(), x.ID, &dto.EditBookingDatesRequest{CheckOut: &checkOut})
	require.NoError(t, err)
	assert.Equal(t, 29, edited.Nights)

	f.uc.cfg.EnforceMaxStayOnEdit = true
	checkOut = "2024-07-01"
	_, err = f.uc.EditBookingDates(ctx, uuid.New(), x.ID, &dto.EditBookingDatesRequest{CheckOut: &checkOut})
	requireRejection(t, err, availability.ReasonTooLong)
}

// racingBookingRepo flips the booking's status between the read and the
// conditional write, as a concurrent writer on another replica would.
type racingBookingRepo struct {
	domainRepo.BookingRepository
	next entity.BookingStatus
	once sync.Once
}

func (r *racingBookingRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	b, err := r.BookingRepository.FindByID(db, id)
	if err != nil || b == nil {
		return b, err
	}
	r.once.Do(func() {
		err = db.Model(&entity.Booking{}).Where("id = ?", id).Update("status", r.next).Error
	})
	return b, err
}

func TestApproveBooking_StaleStateIsReported(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.submit(t, "2024-06-01", "2024-06-08")

	f.uc.bookingRepo = &racingBookingRepo{BookingRepository: f.repo, next: entity.BookingStatusRejected}

	_, err := f.uc.ApproveBooking(context.Background(), uuid.New(), booking.ID, nil)
	assert.ErrorIs(t, err, ErrStaleState)

	var count int64
	require.NoError(t, f.db.Model(&entity.Approval{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMapWriteError(t *testing.T) {
	f := newBookingFixture(t)
	id := uuid.New()

	assert.ErrorIs(t, f.uc.mapWriteError(id, domainRepo.ErrNotFound), ErrBookingNotFound)
	assert.ErrorIs(t, f.uc.mapWriteError(id, fmt.Errorf("update: %w", domainRepo.ErrStaleState)), ErrStaleState)

	boom := errors.New("connection reset")
	assert.Equal(t, boom, f.uc.mapWriteError(id, boom))
}

func TestListBookingsAndUpcomingStays(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	a := f.submit(t, "2024-06-01", "2024-06-08")
	f.submit(t, "2024-07-01", "2024-07-08")
	_, err := f.uc.ApproveBooking(ctx, uuid.New(), a.ID, nil)
	require.NoError(t, err)

	all, err := f.uc.ListBookings(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	pending, err := f.uc.ListBookings(ctx, "Pending")
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Total)

	_, err = f.uc.ListBookings(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stays, err := f.uc.ListUpcomingStays(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stays.Total)
	assert.Equal(t, a.BookingCode, stays.Stays[0].BookingCode)
	assert.Equal(t, 2, stays.Stays[0].PartySize)
}
