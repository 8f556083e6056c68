package repository

import (
	"context"
	"errors"

	"sewa-backend/internal/domain"
)

// ErrDuplicateBookingCode is returned by BookingRepository.Create when the
// generated code is already taken. Callers regenerate and retry.
var ErrDuplicateBookingCode = errors.New("booking code already exists")

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx handed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListPendingStartingBefore(ctx context.Context, date string) ([]domain.Booking, error)
}

type ChatRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.ChatMessage, error)
	MarkThreadRead(ctx context.Context, bookingID, receiverID int32) (int64, error)
	CountUnread(ctx context.Context, bookingID, receiverID int32) (int32, error)
}

// ItemRepository is the read side of the item catalog.
type ItemRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
}

// UserRepository is the read side of the user directory.
type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int32) (map[int32]*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
