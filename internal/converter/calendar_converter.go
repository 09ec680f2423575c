package converter

import (
	"sort"
	"time"

	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/availability"
)

// DayStatesToCalendar flattens a day-state map into date order.
func DayStatesToCalendar(states map[time.Time]availability.DayState) []dto.CalendarDay {
	days := make([]time.Time, 0, len(states))
	for d := range states {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]dto.CalendarDay, len(days))
	for i, d := range days {
		s := states[d]
		out[i] = dto.CalendarDay{
			Date:        availability.FormatDate(d),
			State:       s.String(),
			CanCheckIn:  s.CanCheckIn(),
			CanCheckOut: s.CanCheckOut(),
			Disabled:    s.Disabled(),
		}
	}
	return out
}

// SelectionToResponse renders a selection, leaving unset ends as null.
func SelectionToResponse(sel availability.Selection) *dto.CalendarSelectionResponse {
	resp := &dto.CalendarSelectionResponse{Complete: sel.Complete()}
	if !sel.From.IsZero() {
		from := availability.FormatDate(sel.From)
		resp.From = &from
	}
	if !sel.To.IsZero() {
		to := availability.FormatDate(sel.To)
		resp.To = &to
	}
	return resp
}
