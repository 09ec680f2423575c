package usecase

import (
	"context"
	"errors"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/converter"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	monthLayout       = "2006-01"
	maxCalendarMonths = 24
)

var (
	ErrInvalidMonth      = errors.New("invalid month format, use YYYY-MM")
	ErrInvalidMonthRange = errors.New("month range must be ascending and at most 24 months")
)

// CalendarUsecase serves the guest calendar. Every call reads the current
// active bookings; nothing is cached between calls.
type CalendarUsecase interface {
	GetCalendar(ctx context.Context, fromMonth, toMonth string) (*dto.CalendarResponse, error)
	CheckAvailability(ctx context.Context, checkIn, checkOut string) (*dto.AvailabilityResponse, error)
	Select(ctx context.Context, req *dto.CalendarSelectionRequest) (*dto.CalendarSelectionResponse, error)
}

type calendarUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
	cfg         config.BookingConfig
}

func NewCalendarUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	cfg config.BookingConfig,
) CalendarUsecase {
	return &calendarUsecase{
		db:          db,
		log:         log,
		bookingRepo: bookingRepo,
		cfg:         cfg,
	}
}

func (u *calendarUsecase) GetCalendar(ctx context.Context, fromMonth, toMonth string) (*dto.CalendarResponse, error) {
	from, err := time.Parse(monthLayout, fromMonth)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	to := from
	if toMonth != "" {
		to, err = time.Parse(monthLayout, toMonth)
		if err != nil {
			return nil, ErrInvalidMonth
		}
	}

	span := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if span < 0 || span >= maxCalendarMonths {
		return nil, ErrInvalidMonthRange
	}

	active, err := u.activeIntervals(ctx)
	if err != nil {
		return nil, err
	}

	states := availability.ClassifyRange(from, to, availability.Intervals(active))

	return &dto.CalendarResponse{
		From: from.Format(monthLayout),
		To:   to.Format(monthLayout),
		Days: converter.DayStatesToCalendar(states),
	}, nil
}

// CheckAvailability runs the guest-submission rules without writing anything.
// A rejection is reported in the response, not as an error.
func (u *calendarUsecase) CheckAvailability(ctx context.Context, checkIn, checkOut string) (*dto.AvailabilityResponse, error) {
	from, to, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	active, err := u.activeIntervals(ctx)
	if err != nil {
		return nil, err
	}

	candidate := availability.NewInterval(from, to)
	resp := &dto.AvailabilityResponse{
		CheckIn:   availability.FormatDate(from),
		CheckOut:  availability.FormatDate(to),
		Nights:    candidate.Nights(),
		Available: true,
	}

	if err := availability.ValidateCandidate(candidate, active, u.submissionOptions()); err != nil {
		rej, ok := availability.IsRejection(err)
		if !ok {
			return nil, err
		}
		resp.Available = false
		resp.Reason = string(rej.Reason)
		resp.Message = rej.Message()
	}
	return resp, nil
}

// Select advances the guest's in-progress calendar selection by one click.
func (u *calendarUsecase) Select(ctx context.Context, req *dto.CalendarSelectionRequest) (*dto.CalendarSelectionResponse, error) {
	var current availability.Selection
	if req.From != nil {
		d, err := availability.ParseDate(*req.From)
		if err != nil {
			return nil, ErrInvalidDate
		}
		current.From = d
	}
	if req.To != nil && req.From != nil {
		d, err := availability.ParseDate(*req.To)
		if err != nil {
			return nil, ErrInvalidDate
		}
		current.To = d
	}
	day, err := availability.ParseDate(req.Day)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// A click after a complete range starts over.
	if current.Complete() {
		current = availability.Selection{}
	}

	active, err := u.activeIntervals(ctx)
	if err != nil {
		return nil, err
	}

	next, err := availability.Select(current, day, active, u.submissionOptions())
	if err != nil {
		rej, ok := availability.IsRejection(err)
		if !ok {
			return nil, err
		}
		resp := converter.SelectionToResponse(next)
		resp.Reason = string(rej.Reason)
		resp.Message = rej.Message()
		return resp, nil
	}

	return converter.SelectionToResponse(next), nil
}

func (u *calendarUsecase) activeIntervals(ctx context.Context) ([]availability.BookedInterval, error) {
	active, err := u.bookingRepo.ListActiveIntervals(u.db.WithContext(ctx), entity.ActiveBookingStatuses, nil)
	if err != nil {
		u.log.Warnf("Failed to list active bookings: %+v", err)
		return nil, err
	}
	return active, nil
}

func (u *calendarUsecase) submissionOptions() availability.Options {
	return availability.Options{
		MaxStayNights:  u.cfg.MaxStayNights,
		EnforceMaxStay: true,
	}
}
