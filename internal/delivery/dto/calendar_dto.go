package dto

// Request DTOs

// CalendarSelectionRequest carries the guest's current pick plus the day just clicked.
type CalendarSelectionRequest struct {
	From *string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   *string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Day  string  `json:"day" validate:"required,datetime=2006-01-02"`
}

// Response DTOs

type CalendarDay struct {
	Date        string `json:"date"`
	State       string `json:"state"`
	CanCheckIn  bool   `json:"can_check_in"`
	CanCheckOut bool   `json:"can_check_out"`
	Disabled    bool   `json:"disabled"`
}

type CalendarResponse struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Days []CalendarDay `json:"days"`
}

type AvailabilityResponse struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Nights    int    `json:"nights"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

type CalendarSelectionResponse struct {
	From     *string `json:"from"`
	To       *string `json:"to"`
	Complete bool    `json:"complete"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message,omitempty"`
}
