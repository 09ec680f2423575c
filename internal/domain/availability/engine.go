package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reason identifies why a candidate interval was refused.
type Reason string

const (
	ReasonInvalidOrder     Reason = "invalid_order"
	ReasonTooLong          Reason = "too_long"
	ReasonOverlap          Reason = "overlap"
	ReasonEdgeBlocked      Reason = "edge_blocked"
	ReasonSameDaySelection Reason = "same_day_selection"
)

var reasonMessages = map[Reason]string{
	ReasonInvalidOrder:     "check-out must be after check-in",
	ReasonTooLong:          "stay is longer than the maximum allowed",
	ReasonOverlap:          "dates overlap an existing booking",
	ReasonEdgeBlocked:      "date falls on a fully occupied changeover day",
	ReasonSameDaySelection: "select a check-out date after the check-in date",
}

// RejectionError is returned when a candidate interval cannot be booked.
// It is an expected outcome, not an infrastructure failure.
type RejectionError struct {
	Reason Reason
	Detail string
}

func (e *RejectionError) Error() string {
	msg := reasonMessages[e.Reason]
	if e.Detail != "" {
		return msg + ": " + e.Detail
	}
	return msg
}

// Message is the user-facing text for the rejection.
func (e *RejectionError) Message() string {
	return reasonMessages[e.Reason]
}

func reject(reason Reason, detail string) *RejectionError {
	return &RejectionError{Reason: reason, Detail: detail}
}

// IsRejection reports whether err is a validation rejection and returns it.
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// Options tune ValidateCandidate for a call site.
type Options struct {
	// MaxStayNights is the longest accepted stay. Zero disables the check.
	MaxStayNights int
	// EnforceMaxStay switches the MaxStayNights check on.
	EnforceMaxStay bool
	// ExcludeBookingID removes the booking being edited from the active set.
	ExcludeBookingID uuid.UUID
}

// ValidateCandidate checks candidate against the active bookings and returns nil
// when it may be committed, or a *RejectionError naming the first failed rule.
func ValidateCandidate(candidate Interval, active []BookedInterval, opts Options) error {
	if candidate.From.IsZero() || candidate.To.IsZero() {
		return reject(ReasonInvalidOrder, "both dates are required")
	}

	c := NewInterval(candidate.From, candidate.To)
	if c.From.Equal(c.To) {
		return reject(ReasonSameDaySelection, "")
	}
	if !c.From.Before(c.To) {
		return reject(ReasonInvalidOrder, c.String())
	}

	if opts.EnforceMaxStay && opts.MaxStayNights > 0 && c.Nights() > opts.MaxStayNights {
		return reject(ReasonTooLong, fmt.Sprintf("%d nights, maximum is %d", c.Nights(), opts.MaxStayNights))
	}

	others := make([]Interval, 0, len(active))
	for _, b := range active {
		if opts.ExcludeBookingID != uuid.Nil && b.BookingID == opts.ExcludeBookingID {
			continue
		}
		if Overlaps(c, b.Interval) {
			return reject(ReasonOverlap, "conflicts with "+b.Interval.String())
		}
		others = append(others, b.Interval)
	}

	if ClassifyDay(c.To, others) == FullyBlockedEdge {
		return reject(ReasonEdgeBlocked, "check-out "+FormatDate(c.To))
	}
	if ClassifyDay(c.From, others) == FullyBlockedEdge {
		return reject(ReasonEdgeBlocked, "check-in "+FormatDate(c.From))
	}

	return nil
}

// Intervals strips booking ids from a set of booked intervals.
func Intervals(active []BookedInterval) []Interval {
	out := make([]Interval, len(active))
	for i, b := range active {
		out[i] = b.Interval
	}
	return out
}

// ClassifyRange classifies every day from the first day of fromMonth through the
// last day of toMonth. Keys are normalized dates.
func ClassifyRange(fromMonth, toMonth time.Time, active []Interval) map[time.Time]DayState {
	start := firstOfMonth(fromMonth)
	end := firstOfMonth(toMonth).AddDate(0, 1, 0)

	states := make(map[time.Time]DayState)
	if end.Before(start) {
		return states
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		states[d] = ClassifyDay(d, active)
	}
	return states
}

func firstOfMonth(t time.Time) time.Time {
	n := Normalize(t)
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
}
