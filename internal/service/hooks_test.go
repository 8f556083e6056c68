package service_test

import (
	"context"
	"testing"
	"time"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func approveChange() *domain.StatusChange {
	b := pendingBooking()
	b.Status = domain.BookingStatusApproved
	b.NegotiatedAmountCents = int64Ptr(120000)
	return &domain.StatusChange{
		Booking:    b,
		From:       domain.BookingStatusPending,
		To:         domain.BookingStatusApproved,
		Event:      domain.BookingEventApprove,
		ActorID:    1,
		OccurredAt: time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestSystemMessageHook(t *testing.T) {
	ctx := context.Background()

	t.Run("Actor sends the announcement", func(t *testing.T) {
		chatRepo := new(MockChatRepo)
		hook := service.NewSystemMessageHook(chatRepo)
		chatRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
			return m.SenderID == 1 && m.ReceiverID == 2 && m.Type() == domain.MessageTypeSystem &&
				m.Content.Body() == "Booking BK-1A2B3C4D was approved at 1200.00"
		})).Return(nil)

		require.NoError(t, hook.OnTransition(ctx, approveChange()))
		chatRepo.AssertExpectations(t)
	})

	t.Run("System changes are attributed to the owner", func(t *testing.T) {
		chatRepo := new(MockChatRepo)
		hook := service.NewSystemMessageHook(chatRepo)
		change := approveChange()
		change.Event = domain.BookingEventCancel
		change.To = domain.BookingStatusCancelled
		change.ActorID = domain.SystemActorID
		chatRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
			return m.SenderID == 1 && m.ReceiverID == 2
		})).Return(nil)

		require.NoError(t, hook.OnTransition(ctx, change))
		chatRepo.AssertExpectations(t)
	})
}

func TestNotificationHook(t *testing.T) {
	ctx := context.Background()

	t.Run("Counterparty is notified", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		hook := service.NewNotificationHook(noteRepo)
		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == 2 && n.Title == "Booking Approved" &&
				n.Attributes["type"] == "BOOKING_APPROVE" && n.Attributes["booking_id"] == "7"
		})).Return(nil)

		require.NoError(t, hook.OnTransition(ctx, approveChange()))
		noteRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Both parties hear about system changes", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		hook := service.NewNotificationHook(noteRepo)
		change := approveChange()
		change.ActorID = domain.SystemActorID
		noteRepo.On("Create", ctx, mock.Anything).Return(nil)

		require.NoError(t, hook.OnTransition(ctx, change))
		noteRepo.AssertNumberOfCalls(t, "Create", 2)
	})
}

func TestDescribeChange(t *testing.T) {
	change := approveChange()
	change.Booking.NegotiatedAmountCents = nil
	assert.Equal(t, "Booking BK-1A2B3C4D was approved", service.DescribeChange(change))

	change.Event = domain.BookingEventCancel
	change.ActorID = domain.SystemActorID
	assert.Equal(t, "Booking BK-1A2B3C4D expired without a response and was cancelled", service.DescribeChange(change))

	change.Event = domain.BookingEventRequest
	assert.Equal(t, "Booking BK-1A2B3C4D requested for 2025-06-01 to 2025-06-03", service.DescribeChange(change))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "1200.00", service.FormatCents(120000))
	assert.Equal(t, "0.05", service.FormatCents(5))
	assert.Equal(t, "-3.10", service.FormatCents(-310))
}

func TestNewBookingCode(t *testing.T) {
	code := service.NewBookingCode()
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, code)
	assert.NotEqual(t, code, service.NewBookingCode())
}
