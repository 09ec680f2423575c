package dto

import (
	"time"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID         uuid.UUID  `json:"id"`
	BookingID  uuid.UUID  `json:"booking_id"`
	BookingRef string     `json:"booking_ref"`
	GuestName  string     `json:"guest_name"`
	CheckIn    string     `json:"check_in"`
	CheckOut   string     `json:"check_out"`
	IsPaid     bool       `json:"is_paid"`
	UpdatedBy  *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int               `json:"total"`
}
