package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/converter"
	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/domain/repository"
	"cottage-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking transition")
	ErrStaleState        = errors.New("booking was changed by someone else, reload and try again")
	ErrInvalidDate       = errors.New("invalid date format, use YYYY-MM-DD")
	ErrCheckInInPast     = errors.New("check-in date is in the past")
	ErrEmptyParty        = errors.New("at least one guest is required")
	ErrNoDateChange      = errors.New("check_in or check_out is required")
	ErrInvalidStatus     = errors.New("unknown booking status")
)

type BookingUsecase interface {
	SubmitBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, status string) (*dto.BookingListResponse, error)
	ApproveBooking(ctx context.Context, actorID, bookingID uuid.UUID, comment *string) (*dto.BookingResponse, error)
	RejectBooking(ctx context.Context, actorID, bookingID uuid.UUID, comment *string) (*dto.BookingResponse, error)
	EditBookingDates(ctx context.Context, actorID, bookingID uuid.UUID, req *dto.EditBookingDatesRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	CancelBookingByToken(ctx context.Context, token, reason string) (*dto.BookingResponse, error)
	GetCancellationPreview(ctx context.Context, token string) (*dto.CancellationPreviewResponse, error)
	GetBookingHistory(ctx context.Context, bookingID uuid.UUID) (*dto.BookingHistoryResponse, error)
	ListUpcomingStays(ctx context.Context) (*dto.StayListResponse, error)
}

type bookingUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	bookingRepo      repository.BookingRepository
	approvalRepo     repository.ApprovalRepository
	cancellationRepo repository.CancellationRepository
	paymentRepo      repository.PaymentRepository
	locker           service.CalendarLocker
	notifier         service.Notifier
	cfg              config.BookingConfig
	now              func() time.Time
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	approvalRepo repository.ApprovalRepository,
	cancellationRepo repository.CancellationRepository,
	paymentRepo repository.PaymentRepository,
	locker service.CalendarLocker,
	notifier service.Notifier,
	cfg config.BookingConfig,
) BookingUsecase {
	return &bookingUsecase{
		db:               db,
		log:              log,
		bookingRepo:      bookingRepo,
		approvalRepo:     approvalRepo,
		cancellationRepo: cancellationRepo,
		paymentRepo:      paymentRepo,
		locker:           locker,
		notifier:         notifier,
		cfg:              cfg,
		now:              time.Now,
	}
}

// SubmitBooking creates a pending booking.
//
// Flow:
// 1. Parse and sanity-check the request
// 2. Take the calendar lock
// 3. Re-read active intervals and validate inside the transaction
// 4. Insert with a fresh cancel token and booking code
// 5. Commit, then notify approvers
func (u *bookingUsecase) SubmitBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if checkIn.Before(availability.Normalize(u.now())) {
		return nil, ErrCheckInInPast
	}
	if req.Adults+req.GrandchildrenOver21+req.Children16Plus+req.Students == 0 {
		return nil, ErrEmptyParty
	}

	candidate := availability.NewInterval(checkIn, checkOut)
	opts := availability.Options{
		MaxStayNights:  u.cfg.MaxStayNights,
		EnforceMaxStay: true,
	}

	// Fail fast on rules that do not depend on other bookings.
	if err := availability.ValidateCandidate(candidate, nil, opts); err != nil {
		return nil, err
	}

	release, err := u.locker.Acquire(ctx, service.CalendarLockKey)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	active, err := u.bookingRepo.ListActiveIntervals(tx, entity.ActiveBookingStatuses, nil)
	if err != nil {
		u.log.Warnf("Failed to list active bookings: %+v", err)
		return nil, err
	}
	if err := availability.ValidateCandidate(candidate, active, opts); err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		BookingCode:         generateBookingCode(checkIn),
		GuestName:           strings.TrimSpace(req.GuestName),
		GuestEmail:          strings.ToLower(strings.TrimSpace(req.GuestEmail)),
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		Adults:              req.Adults,
		GrandchildrenOver21: req.GrandchildrenOver21,
		Children16Plus:      req.Children16Plus,
		Students:            req.Students,
		FamilyMember:        req.FamilyMember,
		Status:              entity.BookingStatusPending,
		CancelToken:         uuid.NewString(),
	}
	if err := u.bookingRepo.Create(tx, booking); err != nil {
		u.log.Warnf("Failed to create booking: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Booking submitted: id=%s, code=%s, stay=%s", booking.ID, booking.BookingCode, candidate)
	u.notifier.NotifyApprovers(ctx, *booking)

	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) ListBookings(ctx context.Context, status string) (*dto.BookingListResponse, error) {
	var filter *entity.BookingStatus
	if status != "" {
		s, err := entity.ParseBookingStatus(status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		filter = &s
	}

	bookings, err := u.bookingRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

func (u *bookingUsecase) ApproveBooking(ctx context.Context, actorID, bookingID uuid.UUID, comment *string) (*dto.BookingResponse, error) {
	return u.decide(ctx, actorID, bookingID, entity.ApprovalActionApproved, comment)
}

func (u *bookingUsecase) RejectBooking(ctx context.Context, actorID, bookingID uuid.UUID, comment *string) (*dto.BookingResponse, error) {
	return u.decide(ctx, actorID, bookingID, entity.ApprovalActionRejected, comment)
}

// decide moves a pending booking to approved or rejected and appends the
// Approval record in the same transaction. An approved booking also gets its
// unpaid payment row.
func (u *bookingUsecase) decide(ctx context.Context, actorID, bookingID uuid.UUID, action entity.ApprovalAction, comment *string) (*dto.BookingResponse, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("%w: acting user is required", ErrInvalidTransition)
	}
	comment = trimOptional(comment)

	release, err := u.locker.Acquire(ctx, service.BookingLockKey(bookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.IsPending() {
		return nil, fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, verbFor(action), booking.Status)
	}

	updated, err := u.bookingRepo.UpdateStatus(tx, bookingID, booking.Status, action.Status())
	if err != nil {
		return nil, u.mapWriteError(bookingID, err)
	}

	approval := &entity.Approval{
		BookingID: bookingID,
		UserID:    actorID,
		Action:    action,
		Comment:   comment,
	}
	if err := u.approvalRepo.Create(tx, approval); err != nil {
		u.log.Warnf("Failed to append approval for booking %s: %+v", bookingID, err)
		return nil, err
	}

	if action == entity.ApprovalActionApproved {
		payment := &entity.BookingPayment{BookingID: bookingID, BookingRef: updated.BookingCode}
		if err := u.paymentRepo.Create(tx, payment); err != nil {
			u.log.Warnf("Failed to create payment row for booking %s: %+v", bookingID, err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Booking %s: id=%s, by=%s", action, bookingID, actorID)
	u.notifier.NotifyGuestOfDecision(ctx, *updated, action, comment)

	return converter.BookingToResponse(updated), nil
}

// EditBookingDates moves one or both ends of a pending or approved stay. The
// end that is not supplied is held at its stored value, and the booking itself
// is excluded from the active set it is validated against.
func (u *bookingUsecase) EditBookingDates(ctx context.Context, actorID, bookingID uuid.UUID, req *dto.EditBookingDatesRequest) (*dto.BookingResponse, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("%w: acting user is required", ErrInvalidTransition)
	}
	if req.CheckIn == nil && req.CheckOut == nil {
		return nil, ErrNoDateChange
	}

	var newCheckIn, newCheckOut *time.Time
	if req.CheckIn != nil {
		d, err := availability.ParseDate(*req.CheckIn)
		if err != nil {
			return nil, ErrInvalidDate
		}
		newCheckIn = &d
	}
	if req.CheckOut != nil {
		d, err := availability.ParseDate(*req.CheckOut)
		if err != nil {
			return nil, ErrInvalidDate
		}
		newCheckOut = &d
	}

	release, err := u.locker.Acquire(ctx, service.CalendarLockKey)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.Status.CanTransitionTo(booking.Status) {
		return nil, fmt.Errorf("%w: cannot edit a %s booking", ErrInvalidTransition, booking.Status)
	}

	candidate := booking.Interval()
	if newCheckIn != nil {
		candidate.From = *newCheckIn
	}
	if newCheckOut != nil {
		candidate.To = *newCheckOut
	}

	active, err := u.bookingRepo.ListActiveIntervals(tx, entity.ActiveBookingStatuses, &bookingID)
	if err != nil {
		u.log.Warnf("Failed to list active bookings: %+v", err)
		return nil, err
	}
	opts := availability.Options{
		MaxStayNights:    u.cfg.MaxStayNights,
		EnforceMaxStay:   u.cfg.EnforceMaxStayOnEdit,
		ExcludeBookingID: bookingID,
	}
	if err := availability.ValidateCandidate(candidate, active, opts); err != nil {
		return nil, err
	}

	updated, err := u.bookingRepo.UpdateDates(tx, bookingID, booking.Status, candidate.From, candidate.To)
	if err != nil {
		return nil, u.mapWriteError(bookingID, err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Booking dates edited: id=%s, from=%s, to=%s, by=%s", bookingID, booking.Interval(), candidate, actorID)
	return converter.BookingToResponse(updated), nil
}

// CancelBooking is the approver-initiated cancellation.
func (u *bookingUsecase) CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("%w: acting user is required", ErrInvalidTransition)
	}
	return u.cancel(ctx, bookingID, &actorID, reason)
}

// CancelBookingByToken is the guest self-service cancellation. The token is
// matched exactly as received.
func (u *bookingUsecase) CancelBookingByToken(ctx context.Context, token, reason string) (*dto.BookingResponse, error) {
	if token == "" {
		return nil, ErrBookingNotFound
	}

	booking, err := u.bookingRepo.FindByCancelToken(u.db.WithContext(ctx), token)
	if err != nil {
		u.log.Warnf("Failed to find booking by cancel token: %+v", err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return u.cancel(ctx, booking.ID, nil, reason)
}

func (u *bookingUsecase) cancel(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason string) (*dto.BookingResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrInvalidTransition)
	}

	release, err := u.locker.Acquire(ctx, service.BookingLockKey(bookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidTransition, booking.Status)
	}

	updated, err := u.bookingRepo.UpdateStatus(tx, bookingID, booking.Status, entity.BookingStatusCancelled)
	if err != nil {
		return nil, u.mapWriteError(bookingID, err)
	}

	cancellation := &entity.Cancellation{
		BookingID:   bookingID,
		CancelledBy: actorID,
		Reason:      reason,
	}
	if err := u.cancellationRepo.Create(tx, cancellation); err != nil {
		u.log.Warnf("Failed to append cancellation for booking %s: %+v", bookingID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Booking cancelled: id=%s, by_guest=%t", bookingID, actorID == nil)
	u.notifier.NotifyGuestOfCancellation(ctx, *updated, reason)
	u.notifier.NotifyApproversOfCancellation(ctx, *updated, reason)

	return converter.BookingToResponse(updated), nil
}

func (u *bookingUsecase) GetCancellationPreview(ctx context.Context, token string) (*dto.CancellationPreviewResponse, error) {
	if token == "" {
		return nil, ErrBookingNotFound
	}

	db := u.db.WithContext(ctx)
	booking, err := u.bookingRepo.FindByCancelToken(db, token)
	if err != nil {
		u.log.Warnf("Failed to find booking by cancel token: %+v", err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	var reason *string
	if booking.Status == entity.BookingStatusCancelled {
		reason, err = u.cancellationRepo.FindLatestReason(db, booking.ID)
		if err != nil {
			u.log.Warnf("Failed to find cancellation reason for booking %s: %+v", booking.ID, err)
			return nil, err
		}
	}

	return converter.BookingToCancellationPreview(booking, reason), nil
}

func (u *bookingUsecase) GetBookingHistory(ctx context.Context, bookingID uuid.UUID) (*dto.BookingHistoryResponse, error) {
	db := u.db.WithContext(ctx)

	booking, err := u.bookingRepo.FindByID(db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	approvals, err := u.approvalRepo.FindByBookingID(db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find approvals for booking %s: %+v", bookingID, err)
		return nil, err
	}
	cancellations, err := u.cancellationRepo.FindByBookingID(db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find cancellations for booking %s: %+v", bookingID, err)
		return nil, err
	}

	return &dto.BookingHistoryResponse{
		Booking:       *converter.BookingToResponse(booking),
		Approvals:     converter.ApprovalsToResponses(approvals),
		Cancellations: converter.CancellationsToResponses(cancellations),
	}, nil
}

// ListUpcomingStays lists approved stays that have not yet ended.
func (u *bookingUsecase) ListUpcomingStays(ctx context.Context) (*dto.StayListResponse, error) {
	bookings, err := u.bookingRepo.FindUpcoming(u.db.WithContext(ctx), u.now(), entity.BookingStatusApproved)
	if err != nil {
		u.log.Warnf("Failed to list upcoming stays: %+v", err)
		return nil, err
	}

	return &dto.StayListResponse{
		Stays: converter.BookingsToStays(bookings),
		Total: len(bookings),
	}, nil
}

func (u *bookingUsecase) mapWriteError(bookingID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrStaleState):
		u.log.Infof("Stale write rejected for booking %s", bookingID)
		return ErrStaleState
	}
	u.log.Warnf("Failed to update booking %s: %+v", bookingID, err)
	return err
}

func parseStay(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := availability.ParseDate(checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	checkOut, err := availability.ParseDate(checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return checkIn, checkOut, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func verbFor(action entity.ApprovalAction) string {
	if action == entity.ApprovalActionApproved {
		return "approve"
	}
	return "reject"
}

// generateBookingCode generates a booking reference: BK-YYYYMMDD-XXXXXX
func generateBookingCode(checkIn time.Time) string {
	dateStr := checkIn.Format("20060102")
	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)
	return fmt.Sprintf("BK-%s-%06X", dateStr, randomBytes)
}
