package entity

import (
	"fmt"
	"strings"
	"time"

	"cottage-booking/internal/domain/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that occupy the calendar.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusApproved}

// ParseBookingStatus normalizes case and whitespace once at the boundary.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

// IsActive reports whether a booking in this status blocks the calendar.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// CanTransitionTo encodes the booking lifecycle. Date edits keep the status,
// so pending->pending and approved->approved are valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusPending || next == BookingStatusApproved || next == BookingStatusRejected
	case BookingStatusApproved:
		return next == BookingStatusApproved || next == BookingStatusCancelled
	}
	return false
}

// Booking is a guest's request to stay over [CheckIn, CheckOut).
type Booking struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BookingCode         string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"booking_code"`
	GuestName           string        `gorm:"type:varchar(255);not null" json:"guest_name"`
	GuestEmail          string        `gorm:"type:varchar(255);not null" json:"guest_email"`
	CheckIn             time.Time     `gorm:"type:date;not null;index" json:"check_in"`
	CheckOut            time.Time     `gorm:"type:date;not null;index" json:"check_out"`
	Adults              int           `gorm:"not null;default:0" json:"adults"`
	GrandchildrenOver21 int           `gorm:"column:grandchildren_over21;not null;default:0" json:"grandchildren_over21"`
	Children16Plus      int           `gorm:"column:children_16plus;not null;default:0" json:"children_16plus"`
	Students            int           `gorm:"not null;default:0" json:"students"`
	FamilyMember        bool          `gorm:"not null;default:false" json:"family_member"`
	Status              BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CancelToken         string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	CreatedAt           time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Interval returns the booking's stay as a half-open date interval.
func (b *Booking) Interval() availability.Interval {
	return availability.NewInterval(b.CheckIn, b.CheckOut)
}

// Nights is the length of the stay.
func (b *Booking) Nights() int {
	return b.Interval().Nights()
}

// PartySize counts every guest listed on the booking.
func (b *Booking) PartySize() int {
	return b.Adults + b.GrandchildrenOver21 + b.Children16Plus + b.Students
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsApproved checks if booking is approved
func (b *Booking) IsApproved() bool {
	return b.Status == BookingStatusApproved
}

// IsTerminal checks if booking can no longer change
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}
