package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/domain/entity"
	domainRepo "cottage-booking/internal/domain/repository"
	"cottage-booking/internal/infrastructure/weather"
	"cottage-booking/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeForecast serves the same codes for consecutive days starting at from.
type fakeForecast struct {
	mu    sync.Mutex
	codes []int
	err   error
	calls int
}

func (f *fakeForecast) Daily(ctx context.Context, from time.Time, days int) ([]weather.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]weather.Day, 0, days)
	for i := 0; i < days && i < len(f.codes); i++ {
		out = append(out, weather.Day{Date: from.AddDate(0, 0, i), Code: f.codes[i], MaxTempC: 18})
	}
	return out, nil
}

func cloudyWeek() *fakeForecast {
	return &fakeForecast{codes: []int{3, 3, 3, 3, 3, 3, 3}}
}

// flakyCheckInRepo fails the first arrival lookup, as a dropped connection would.
type flakyCheckInRepo struct {
	domainRepo.BookingRepository
	once sync.Once
}

func (r *flakyCheckInRepo) FindByCheckIn(db *gorm.DB, day time.Time, status entity.BookingStatus) ([]entity.Booking, error) {
	var err error
	r.once.Do(func() { err = errors.New("connection reset") })
	if err != nil {
		return nil, err
	}
	return r.BookingRepository.FindByCheckIn(db, day, status)
}

func newDailyTasks(t *testing.T, db *gorm.DB, rdb *redis.Client, notifier *fakeNotifier, forecast weather.Provider, bookingRepo domainRepo.BookingRepository) *dailyTaskUsecase {
	t.Helper()
	if bookingRepo == nil {
		bookingRepo = repository.NewBookingRepository()
	}
	uc := NewDailyTaskUsecase(db, newTestLogger(), bookingRepo, repository.NewSubscriberRepository(),
		notifier, forecast, rdb, config.TasksConfig{DailyHour: 8}).(*dailyTaskUsecase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestRunDailyTasks_SendsOncePerDay(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	notifier := &fakeNotifier{}

	// fixedNow is 2024-05-01: checkouts on 05-04, arrivals on 05-08.
	seedBooking(t, db, "2024-04-28", "2024-05-04", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-04-30", "2024-05-04", entity.BookingStatusCancelled)
	arriving := seedBooking(t, db, "2024-05-08", "2024-05-10", entity.BookingStatusApproved)
	arriving.GuestEmail = "grace@example.com"
	require.NoError(t, db.Save(arriving).Error)
	seedBooking(t, db, "2024-05-10", "2024-05-12", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-05-08", "2024-05-09", entity.BookingStatusPending)

	uc := newDailyTasks(t, db, rdb, notifier, cloudyWeek(), nil)

	resp, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", resp.RunDate)
	assert.False(t, resp.Skipped)
	assert.Empty(t, resp.SkippedTasks)
	assert.Equal(t, 1, resp.CleanerCheckouts)
	assert.Equal(t, 1, resp.GuestReminders)
	assert.Zero(t, resp.SubscriberAlerts)
	assert.Equal(t, []string{"grace@example.com"}, notifier.reminded)
	require.Len(t, notifier.cleaners, 1)
	assert.Equal(t, "2024-05-04", notifier.cleaners[0].Format("2006-01-02"))
	assert.True(t, mr.Exists("daily_tasks:2024-05-01:cleaners"))
	assert.True(t, mr.Exists("daily_tasks:2024-05-01:reminders"))
	assert.True(t, mr.Exists("daily_tasks:2024-05-01:newsletter"))

	again, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.ElementsMatch(t, []string{"cleaners", "reminders", "newsletter"}, again.SkippedTasks)
	assert.Len(t, notifier.reminded, 1)
	assert.Len(t, notifier.cleaners, 1)
}

func TestRunDailyTasks_NoCleanerMailWithoutCheckouts(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	notifier := &fakeNotifier{}

	uc := newDailyTasks(t, db, rdb, notifier, cloudyWeek(), nil)

	resp, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.CleanerCheckouts)
	assert.Zero(t, resp.GuestReminders)
	assert.Empty(t, notifier.cleaners)
}

func TestRunDailyTasks_FailureReleasesGuard(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)

	uc := newDailyTasks(t, db, rdb, &fakeNotifier{}, cloudyWeek(), nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = uc.RunDailyTasks(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists("daily_tasks:2024-05-01:cleaners"))
	assert.False(t, mr.Exists("daily_tasks:2024-05-01:reminders"))
	assert.False(t, mr.Exists("daily_tasks:2024-05-01:newsletter"))
}

func TestRunDailyTasks_RetryOnlyRepeatsFailedTask(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	notifier := &fakeNotifier{}

	seedBooking(t, db, "2024-04-28", "2024-05-04", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-05-08", "2024-05-10", entity.BookingStatusApproved)

	repo := &flakyCheckInRepo{BookingRepository: repository.NewBookingRepository()}
	uc := newDailyTasks(t, db, rdb, notifier, cloudyWeek(), repo)

	_, err := uc.RunDailyTasks(context.Background())
	require.ErrorContains(t, err, "connection reset")
	assert.Len(t, notifier.cleaners, 1)
	assert.Empty(t, notifier.reminded)
	assert.True(t, mr.Exists("daily_tasks:2024-05-01:cleaners"))
	assert.False(t, mr.Exists("daily_tasks:2024-05-01:reminders"))

	resp, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Skipped)
	assert.Contains(t, resp.SkippedTasks, "cleaners")
	assert.Equal(t, 1, resp.GuestReminders)
	assert.Len(t, notifier.cleaners, 1, "cleaner mail must not be sent twice")
	assert.Len(t, notifier.reminded, 1)
}

func seedSubscriber(t *testing.T, db *gorm.DB, email string, status entity.SubscriberStatus) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Subscriber{Name: "Sub", Email: email, Status: status}).Error)
}

func TestRunDailyTasks_NewsletterOnSunnyFreeWeek(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	notifier := &fakeNotifier{}

	// Window is Sat 05-04 to Fri 05-10. The approved stay takes the nights of
	// 05-04 and 05-05; pending requests do not block the newsletter.
	seedBooking(t, db, "2024-05-02", "2024-05-06", entity.BookingStatusApproved)
	seedBooking(t, db, "2024-05-06", "2024-05-10", entity.BookingStatusPending)
	seedSubscriber(t, db, "zoe@example.com", entity.SubscriberStatusActive)
	seedSubscriber(t, db, "amy@example.com", entity.SubscriberStatusActive)
	seedSubscriber(t, db, "gone@example.com", entity.SubscriberStatusUnsubscribed)

	forecast := &fakeForecast{codes: []int{0, 0, 2, 0, 3, 61, 1}}
	uc := newDailyTasks(t, db, rdb, notifier, forecast, nil)

	resp, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SubscriberAlerts)
	assert.Equal(t, []string{"amy@example.com", "zoe@example.com"}, notifier.alerted)
	require.Len(t, notifier.alerts, 1)
	week := notifier.alerts[0]
	require.Len(t, week, 7)
	assert.Equal(t, "2024-05-04", week[0].Date.Format("2006-01-02"))
	assert.True(t, week[0].Booked)
	assert.True(t, week[1].Booked)
	assert.False(t, week[2].Booked)
	assert.True(t, week[2].Available())
	assert.True(t, mr.Exists("daily_tasks:2024-05-01:newsletter"))

	_, err = uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, notifier.alerts, 1)
	assert.Equal(t, 1, forecast.calls)
}

func TestRunDailyTasks_NewsletterNeedsThreeSunnyFreeDays(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	notifier := &fakeNotifier{}

	// Only 05-06 and 05-07 are both sunny and free.
	seedBooking(t, db, "2024-05-02", "2024-05-06", entity.BookingStatusApproved)
	seedSubscriber(t, db, "amy@example.com", entity.SubscriberStatusActive)

	uc := newDailyTasks(t, db, rdb, notifier, &fakeForecast{codes: []int{0, 0, 2, 1, 3, 61, 45}}, nil)

	resp, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.SubscriberAlerts)
	assert.Empty(t, notifier.alerts)
}

func TestRunDailyTasks_NewsletterOnlyOnWednesday(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	forecast := &fakeForecast{codes: []int{0, 0, 0, 0, 0, 0, 0}}
	seedSubscriber(t, db, "amy@example.com", entity.SubscriberStatusActive)

	uc := newDailyTasks(t, db, rdb, &fakeNotifier{}, forecast, nil)
	uc.now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }

	resp, err := uc.RunDailyTasks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.SubscriberAlerts)
	assert.Zero(t, forecast.calls)
	assert.False(t, mr.Exists("daily_tasks:2024-05-02:newsletter"))
}

func TestRunDailyTasks_ForecastFailureOnlyReleasesNewsletter(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	notifier := &fakeNotifier{}
	seedBooking(t, db, "2024-04-28", "2024-05-04", entity.BookingStatusApproved)

	uc := newDailyTasks(t, db, rdb, notifier, &fakeForecast{err: errors.New("upstream 502")}, nil)

	_, err := uc.RunDailyTasks(context.Background())
	require.ErrorContains(t, err, "newsletter")
	assert.False(t, mr.Exists("daily_tasks:2024-05-01:newsletter"))
	assert.True(t, mr.Exists("daily_tasks:2024-05-01:cleaners"))
	assert.Len(t, notifier.cleaners, 1)
}

func TestUntilNextRun(t *testing.T) {
	uc := &dailyTaskUsecase{now: func() time.Time { return fixedNow }}

	uc.cfg.DailyHour = 10
	assert.Equal(t, 30*time.Minute, uc.untilNextRun())

	uc.cfg.DailyHour = 8
	assert.Equal(t, 22*time.Hour+30*time.Minute, uc.untilNextRun())
}

func TestRunScheduler_StopsOnCancel(t *testing.T) {
	_, rdb := newTestRedis(t)
	uc := NewDailyTaskUsecase(nil, newTestLogger(), nil, nil, &fakeNotifier{}, nil, rdb, config.TasksConfig{DailyHour: 8})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.RunScheduler(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
