package service

import (
	"context"
	"time"

	"sewa-backend/internal/domain"
)

// Every operation takes the acting user explicitly. The transport layer
// resolves it from the access token.

type BookingService interface {
	CreateBooking(ctx context.Context, actorID int32, in CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.BookingDetail, error)
	UpdateBookingStatus(ctx context.Context, actorID, bookingID int32, in UpdateBookingStatusInput) (*domain.Booking, error)
	ApplyEvent(ctx context.Context, actorID, bookingID int32, event domain.BookingEvent) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, actorID int32, status string, page, pageSize int32) (*domain.BookingLists, error)
	// ExpireStaleRequests cancels pending bookings whose start date is
	// before today. It returns the number of bookings cancelled.
	ExpireStaleRequests(ctx context.Context, today time.Time) (int, error)
}

type ChatService interface {
	PostMessage(ctx context.Context, actorID, bookingID int32, in PostMessageInput) (*domain.ChatMessage, error)
	MarkThreadRead(ctx context.Context, actorID, bookingID int32) (int64, error)
	ListMessages(ctx context.Context, actorID, bookingID int32) ([]domain.ChatMessage, error)
	UnreadCount(ctx context.Context, actorID, bookingID int32) (int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type CreateBookingInput struct {
	ItemID    int32  `json:"item_id" validate:"gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	RateType  string `json:"rate_type" validate:"required,oneof=daily weekly monthly"`
	Notes     string `json:"notes" validate:"max=1000"`
}

type UpdateBookingStatusInput struct {
	Status                string `json:"status" validate:"required,oneof=approved rejected"`
	NegotiatedAmountCents *int64 `json:"negotiated_amount_cents" validate:"omitempty,gte=0"`
}

type PostMessageInput struct {
	Message         string `json:"message" validate:"required,max=1000"`
	MessageType     string `json:"message_type" validate:"omitempty,oneof=text price_offer"`
	PriceOfferCents *int64 `json:"price_offer_cents" validate:"omitempty,gte=0"`
}
