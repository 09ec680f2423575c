package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	GuestName           string `json:"guest_name" validate:"required,min=2,max=255"`
	GuestEmail          string `json:"guest_email" validate:"required,email,max=255"`
	CheckIn             string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut            string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults              int    `json:"adults" validate:"gte=0,lte=30"`
	GrandchildrenOver21 int    `json:"grandchildren_over21" validate:"gte=0,lte=30"`
	Children16Plus      int    `json:"children_16plus" validate:"gte=0,lte=30"`
	Students            int    `json:"students" validate:"gte=0,lte=30"`
	FamilyMember        bool   `json:"family_member"`
}

type BookingDecisionRequest struct {
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// EditBookingDatesRequest changes one or both ends of a stay. An omitted end
// keeps its stored value.
type EditBookingDatesRequest struct {
	CheckIn  *string `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut *string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type CancelByTokenRequest struct {
	Token  string `json:"token" validate:"required,max=64"`
	Reason string `json:"reason" validate:"required,max=2000"`
}

// Response DTOs

type BookingResponse struct {
	ID                  uuid.UUID `json:"id"`
	BookingCode         string    `json:"booking_code"`
	GuestName           string    `json:"guest_name"`
	GuestEmail          string    `json:"guest_email"`
	CheckIn             string    `json:"check_in"`
	CheckOut            string    `json:"check_out"`
	Nights              int       `json:"nights"`
	Adults              int       `json:"adults"`
	GrandchildrenOver21 int       `json:"grandchildren_over21"`
	Children16Plus      int       `json:"children_16plus"`
	Students            int       `json:"students"`
	FamilyMember        bool      `json:"family_member"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// CancellationPreviewResponse is what a guest sees on the cancel page. It never
// carries the guest email or the token itself.
type CancellationPreviewResponse struct {
	BookingCode  string  `json:"booking_code"`
	GuestName    string  `json:"guest_name"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	Nights       int     `json:"nights"`
	Status       string  `json:"status"`
	Cancellable  bool    `json:"cancellable"`
	CancelReason *string `json:"cancel_reason,omitempty"`
}

type ApprovalResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CancellationResponse struct {
	ID          uuid.UUID  `json:"id"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
	Reason      string     `json:"reason"`
	CreatedAt   time.Time  `json:"created_at"`
}

type BookingHistoryResponse struct {
	Booking       BookingResponse        `json:"booking"`
	Approvals     []ApprovalResponse     `json:"approvals"`
	Cancellations []CancellationResponse `json:"cancellations"`
}

// StayResponse is the cleaner's view of an approved stay.
type StayResponse struct {
	BookingCode string `json:"booking_code"`
	GuestName   string `json:"guest_name"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Nights      int    `json:"nights"`
	PartySize   int    `json:"party_size"`
}

type StayListResponse struct {
	Stays []StayResponse `json:"stays"`
	Total int            `json:"total"`
}
