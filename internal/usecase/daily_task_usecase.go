package usecase

import (
	"context"
	"fmt"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/domain/repository"
	"cottage-booking/internal/infrastructure/weather"
	"cottage-booking/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	dailyTaskKeyPrefix    = "daily_tasks:"
	dailyTaskGuardTTL     = 36 * time.Hour
	cleanerLeadDays       = 3
	guestReminderLeadDays = 7

	// The newsletter goes out on Wednesdays and covers Saturday to Friday.
	newsletterWeekday    = time.Wednesday
	newsletterLeadDays   = 3
	newsletterWindowDays = 7
	newsletterMinDays    = 3
)

const (
	taskCleaners   = "cleaners"
	taskReminders  = "reminders"
	taskNewsletter = "newsletter"
)

type DailyTaskUsecase interface {
	RunDailyTasks(ctx context.Context) (*dto.DailyTasksResponse, error)
	RunScheduler(ctx context.Context) error
}

type dailyTaskUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	bookingRepo    repository.BookingRepository
	subscriberRepo repository.SubscriberRepository
	notifier       service.Notifier
	forecast       weather.Provider
	redisClient    *redis.Client
	cfg            config.TasksConfig
	now            func() time.Time
}

func NewDailyTaskUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	subscriberRepo repository.SubscriberRepository,
	notifier service.Notifier,
	forecast weather.Provider,
	redisClient *redis.Client,
	cfg config.TasksConfig,
) DailyTaskUsecase {
	return &dailyTaskUsecase{
		db:             db,
		log:            log,
		bookingRepo:    bookingRepo,
		subscriberRepo: subscriberRepo,
		notifier:       notifier,
		forecast:       forecast,
		redisClient:    redisClient,
		cfg:            cfg,
		now:            time.Now,
	}
}

func dailyTaskKey(day time.Time, task string) string {
	return dailyTaskKeyPrefix + availability.FormatDate(day) + ":" + task
}

type dailyTask struct {
	name string
	run  func(ctx context.Context) error
}

// RunDailyTasks sends the cleaners' checkout list, the guests' arrival
// reminders and, on Wednesdays, the subscriber newsletter. Each task has its
// own guard for the day, so a retry after a partial failure only repeats the
// tasks that failed.
func (u *dailyTaskUsecase) RunDailyTasks(ctx context.Context) (*dto.DailyTasksResponse, error) {
	today := availability.Normalize(u.now())
	resp := &dto.DailyTasksResponse{RunDate: availability.FormatDate(today)}

	tasks := []dailyTask{
		{taskCleaners, func(ctx context.Context) error {
			n, err := u.notifyCleaners(ctx, today)
			resp.CleanerCheckouts = n
			return err
		}},
		{taskReminders, func(ctx context.Context) error {
			n, err := u.remindGuests(ctx, today)
			resp.GuestReminders = n
			return err
		}},
	}
	if today.Weekday() == newsletterWeekday && u.forecast != nil {
		tasks = append(tasks, dailyTask{taskNewsletter, func(ctx context.Context) error {
			n, err := u.sendNewsletter(ctx, today)
			resp.SubscriberAlerts = n
			return err
		}})
	}

	var claimed []dailyTask
	for _, task := range tasks {
		if !u.claim(ctx, dailyTaskKey(today, task.name)) {
			resp.SkippedTasks = append(resp.SkippedTasks, task.name)
			continue
		}
		claimed = append(claimed, task)
	}
	if len(claimed) == 0 {
		u.log.Infof("Daily tasks already ran for %s", resp.RunDate)
		resp.Skipped = true
		return resp, nil
	}

	p := pool.New().WithMaxGoroutines(len(claimed)).WithContext(ctx)
	for _, task := range claimed {
		task := task
		p.Go(func(ctx context.Context) error {
			if err := task.run(ctx); err != nil {
				// Only this task is retried on the next run today.
				key := dailyTaskKey(today, task.name)
				if delErr := u.redisClient.Del(context.WithoutCancel(ctx), key).Err(); delErr != nil {
					u.log.Warnf("Failed to release daily task guard %s: %+v", key, delErr)
				}
				return fmt.Errorf("%s: %w", task.name, err)
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		u.log.Warnf("Daily tasks failed for %s: %+v", resp.RunDate, err)
		return nil, err
	}

	u.log.Infof("Daily tasks done for %s: cleaner_checkouts=%d, guest_reminders=%d, subscriber_alerts=%d, skipped=%v",
		resp.RunDate, resp.CleanerCheckouts, resp.GuestReminders, resp.SubscriberAlerts, resp.SkippedTasks)
	return resp, nil
}

// claim takes the guard for one task. Redis being down does not stop the run.
func (u *dailyTaskUsecase) claim(ctx context.Context, key string) bool {
	acquired, err := u.redisClient.SetNX(ctx, key, u.now().UTC().Format(time.RFC3339), dailyTaskGuardTTL).Result()
	if err != nil {
		u.log.Warnf("Failed to set daily task guard %s, running anyway: %+v", key, err)
		return true
	}
	return acquired
}

func (u *dailyTaskUsecase) notifyCleaners(ctx context.Context, today time.Time) (int, error) {
	checkoutDay := today.AddDate(0, 0, cleanerLeadDays)
	bookings, err := u.bookingRepo.FindByCheckOut(u.db.WithContext(ctx), checkoutDay, entity.BookingStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("find checkouts on %s: %w", availability.FormatDate(checkoutDay), err)
	}
	if len(bookings) > 0 {
		u.notifier.NotifyCleanersOfCheckouts(ctx, checkoutDay, bookings)
	}
	return len(bookings), nil
}

func (u *dailyTaskUsecase) remindGuests(ctx context.Context, today time.Time) (int, error) {
	arrivalDay := today.AddDate(0, 0, guestReminderLeadDays)
	bookings, err := u.bookingRepo.FindByCheckIn(u.db.WithContext(ctx), arrivalDay, entity.BookingStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("find arrivals on %s: %w", availability.FormatDate(arrivalDay), err)
	}
	for _, booking := range bookings {
		u.notifier.RemindGuestOfArrival(ctx, booking)
	}
	return len(bookings), nil
}

// sendNewsletter mails active subscribers when the coming Saturday to Friday
// has at least newsletterMinDays sunny nights nobody has booked.
func (u *dailyTaskUsecase) sendNewsletter(ctx context.Context, today time.Time) (int, error) {
	from := today.AddDate(0, 0, newsletterLeadDays)

	days, err := u.forecast.Daily(ctx, from, newsletterWindowDays)
	if err != nil {
		return 0, fmt.Errorf("fetch forecast from %s: %w", availability.FormatDate(from), err)
	}

	bookings, err := u.bookingRepo.FindUpcoming(u.db.WithContext(ctx), from, entity.BookingStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("find stays from %s: %w", availability.FormatDate(from), err)
	}
	intervals := make([]availability.Interval, len(bookings))
	for i, b := range bookings {
		intervals[i] = availability.NewInterval(b.CheckIn, b.CheckOut)
	}

	week := make([]service.ForecastDay, 0, len(days))
	free := 0
	for _, d := range days {
		// A night is taken when no new stay could start that day.
		day := service.ForecastDay{Day: d, Booked: !availability.ClassifyDay(d.Date, intervals).CanCheckIn()}
		if day.Available() {
			free++
		}
		week = append(week, day)
	}
	if free < newsletterMinDays {
		u.log.Infof("Newsletter not sent: %d sunny free days from %s", free, availability.FormatDate(from))
		return 0, nil
	}

	subscribers, err := u.subscriberRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("find subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		return 0, nil
	}

	u.notifier.SendSunnyWeekAlert(ctx, subscribers, week)
	return len(subscribers), nil
}

// RunScheduler runs the daily tasks every day at cfg.DailyHour (UTC) until ctx
// is cancelled.
func (u *dailyTaskUsecase) RunScheduler(ctx context.Context) error {
	for {
		wait := u.untilNextRun()
		u.log.Infof("Next daily task run in %s", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if _, err := u.RunDailyTasks(ctx); err != nil {
			u.log.Errorf("Scheduled daily tasks failed: %+v", err)
		}
	}
}

func (u *dailyTaskUsecase) untilNextRun() time.Duration {
	now := u.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), u.cfg.DailyHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
