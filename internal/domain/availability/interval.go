// Package availability implements the date arithmetic behind the booking calendar:
// half-open stay intervals, per-day availability states and candidate validation
// with same-day changeover.
package availability

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Normalize strips the time of day, keeping the calendar date of t in its own
// location. The result is midnight UTC so dates from different zones compare equal.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
// A zero time is treated as absent and never matches.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return Normalize(a).Equal(Normalize(b))
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Normalize(t).Format(dateLayout)
}

// Interval is a stay [From, To): From is the check-in date, To the check-out date.
type Interval struct {
	From time.Time
	To   time.Time
}

// NewInterval builds an interval with both endpoints normalized.
func NewInterval(from, to time.Time) Interval {
	return Interval{From: Normalize(from), To: Normalize(to)}
}

// Nights is the number of nights covered by the interval.
func (i Interval) Nights() int {
	return int(Normalize(i.To).Sub(Normalize(i.From)).Hours() / 24)
}

func (i Interval) String() string {
	return "[" + FormatDate(i.From) + ", " + FormatDate(i.To) + ")"
}

// BookedInterval is an interval held by an existing booking.
type BookedInterval struct {
	BookingID uuid.UUID
	Interval
}

// Overlaps reports whether candidate and existing share at least one night.
// Touching endpoints (one stay's check-out is the other's check-in) is a legal
// changeover; a shared check-in or shared check-out date always conflicts.
func Overlaps(candidate, existing Interval) bool {
	start, end := Normalize(candidate.From), Normalize(candidate.To)
	bStart, bEnd := Normalize(existing.From), Normalize(existing.To)

	if !(start.Before(bEnd) && end.After(bStart)) {
		return false
	}
	if start.Equal(bStart) || end.Equal(bEnd) {
		return true
	}
	edgeTouch := start.Equal(bEnd) || end.Equal(bStart)
	return !edgeTouch
}
