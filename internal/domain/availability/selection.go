package availability

import "time"

// Selection is the in-progress date range a guest is picking on the calendar.
type Selection struct {
	From time.Time
	To   time.Time
}

// Complete reports whether both ends have been chosen.
func (s Selection) Complete() bool {
	return !s.From.IsZero() && !s.To.IsZero()
}

// Empty reports whether nothing has been chosen yet.
func (s Selection) Empty() bool {
	return s.From.IsZero()
}

// Select applies a click on day to the current selection. Clicking the pending
// start date again clears the selection. A first click must land on a day a stay
// can begin on; a second click later than the start completes the range and runs
// the full candidate validation. On error the current selection is unchanged.
func Select(current Selection, day time.Time, active []BookedInterval, opts Options) (Selection, error) {
	d := Normalize(day)

	if !current.Empty() && !current.Complete() {
		if SameDay(d, current.From) {
			return Selection{}, nil
		}
		if d.After(Normalize(current.From)) {
			candidate := Interval{From: Normalize(current.From), To: d}
			if err := ValidateCandidate(candidate, active, opts); err != nil {
				return current, err
			}
			return Selection{From: candidate.From, To: candidate.To}, nil
		}
	}

	switch ClassifyDay(d, Intervals(active)) {
	case FullyBlockedEdge:
		return current, reject(ReasonEdgeBlocked, "check-in "+FormatDate(d))
	case Interior, CheckinOnly:
		return current, reject(ReasonOverlap, FormatDate(d)+" is available for check-out only")
	}
	return Selection{From: d}, nil
}
