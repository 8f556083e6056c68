package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusReturned  BookingStatus = "returned"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusPaid,
		BookingStatusActive, BookingStatusReturned, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type RateType string

const (
	RateTypeDaily   RateType = "daily"
	RateTypeWeekly  RateType = "weekly"
	RateTypeMonthly RateType = "monthly"
)

func (r RateType) Valid() bool {
	return r == RateTypeDaily || r == RateTypeWeekly || r == RateTypeMonthly
}

type Booking struct {
	ID          int32  `json:"id"`
	BookingCode string `json:"booking_code"`
	ItemID      int32  `json:"item_id"`
	RenterID    int32  `json:"renter_id"`
	// OwnerID is the item's owner at the moment the booking was created.
	// It is a snapshot and is never re-derived from the item.
	OwnerID      int32    `json:"owner_id"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	DurationDays int32    `json:"duration_days"`
	RateType     RateType `json:"rate_type"`
	// Price snapshot fields, captured from the item at creation time.
	RateAmountCents       int64         `json:"rate_amount_cents"`
	DepositAmountCents    *int64        `json:"deposit_amount_cents,omitempty"`
	TotalAmountCents      int64         `json:"total_amount_cents"`
	NegotiatedAmountCents *int64        `json:"negotiated_amount_cents,omitempty"`
	Status                BookingStatus `json:"status"`
	PaymentStatus         PaymentStatus `json:"payment_status"`
	Notes                 string        `json:"notes"`
	PickupConfirmedAt     *time.Time    `json:"pickup_confirmed_at,omitempty"`
	ReturnConfirmedAt     *time.Time    `json:"return_confirmed_at,omitempty"`
	CreatedOn             time.Time     `json:"created_on"`
	UpdatedOn             time.Time     `json:"updated_on"`
}

// IsParty reports whether userID is the renter or the owner of the booking.
func (b *Booking) IsParty(userID int32) bool {
	return userID == b.RenterID || userID == b.OwnerID
}

// Counterparty returns the other party relative to userID.
func (b *Booking) Counterparty(userID int32) int32 {
	if userID == b.RenterID {
		return b.OwnerID
	}
	return b.RenterID
}

// BookingDetail is a booking with its item, both parties and the chat thread attached.
type BookingDetail struct {
	Booking  *Booking      `json:"booking"`
	Item     *Item         `json:"item"`
	Renter   *User         `json:"renter"`
	Owner    *User         `json:"owner"`
	Messages []ChatMessage `json:"messages"`
}

// BookingLists groups the bookings a user takes part in by role.
type BookingLists struct {
	Rentals       []Booking `json:"rentals"`
	RentalsTotal  int32     `json:"rentals_total"`
	Lendings      []Booking `json:"lendings"`
	LendingsTotal int32     `json:"lendings_total"`
	Page          int32     `json:"page"`
	PageSize      int32     `json:"page_size"`
}
