package availability

import "time"

// DayState classifies a calendar day against the active bookings.
type DayState int

const (
	// Free is not touched by any booking.
	Free DayState = iota
	// Interior lies strictly inside a booking.
	Interior
	// CheckoutOnly is an existing guest's departure day. A new stay may start here.
	CheckoutOnly
	// CheckinOnly is an existing guest's arrival day. A new stay may only end here.
	CheckinOnly
	// FullyBlockedEdge is both a departure and an arrival day, so nothing can use it.
	FullyBlockedEdge
)

var dayStateNames = map[DayState]string{
	Free:             "free",
	Interior:         "booked",
	CheckoutOnly:     "checkout_only",
	CheckinOnly:      "checkin_only",
	FullyBlockedEdge: "blocked_edge",
}

func (s DayState) String() string {
	if name, ok := dayStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// CanCheckIn reports whether a new stay may begin on a day in this state.
func (s DayState) CanCheckIn() bool {
	return s == Free || s == CheckoutOnly
}

// CanCheckOut reports whether a new stay may end on a day in this state.
func (s DayState) CanCheckOut() bool {
	return s == Free || s == CheckinOnly
}

// Disabled reports whether the calendar must refuse any click on the day.
func (s DayState) Disabled() bool {
	return s == Interior || s == FullyBlockedEdge
}

// ClassifyDay returns the state of day relative to intervals. A day inside any
// booking is Interior even if it also touches another booking's edge.
func ClassifyDay(day time.Time, intervals []Interval) DayState {
	d := Normalize(day)
	var isEnd, isStart bool

	for _, in := range intervals {
		from, to := Normalize(in.From), Normalize(in.To)
		if d.After(from) && d.Before(to) {
			return Interior
		}
		if d.Equal(to) {
			isEnd = true
		}
		if d.Equal(from) {
			isStart = true
		}
	}

	switch {
	case isEnd && isStart:
		return FullyBlockedEdge
	case isEnd:
		return CheckoutOnly
	case isStart:
		return CheckinOnly
	default:
		return Free
	}
}
