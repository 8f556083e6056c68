package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/service"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, actorID int32, in service.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.BookingDetail, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetail), args.Error(1)
}
func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, actorID, bookingID int32, in service.UpdateBookingStatusInput) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ApplyEvent(ctx context.Context, actorID, bookingID int32, event domain.BookingEvent) (*domain.Booking, error) {
	args := m.Called(ctx, actorID, bookingID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListMyBookings(ctx context.Context, actorID int32, status string, page, pageSize int32) (*domain.BookingLists, error) {
	args := m.Called(ctx, actorID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingLists), args.Error(1)
}
func (m *MockBookingService) ExpireStaleRequests(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) PostMessage(ctx context.Context, actorID, bookingID int32, in service.PostMessageInput) (*domain.ChatMessage, error) {
	args := m.Called(ctx, actorID, bookingID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}
func (m *MockChatService) MarkThreadRead(ctx context.Context, actorID, bookingID int32) (int64, error) {
	args := m.Called(ctx, actorID, bookingID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockChatService) ListMessages(ctx context.Context, actorID, bookingID int32) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}
func (m *MockChatService) UnreadCount(ctx context.Context, actorID, bookingID int32) (int32, error) {
	args := m.Called(ctx, actorID, bookingID)
	return args.Get(0).(int32), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
