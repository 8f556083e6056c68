package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sewa-backend/internal/domain"
)

type recordingSender struct {
	queue string
	pubs  []amqp.Publishing
	err   error
}

func (s *recordingSender) send(ctx context.Context, queue string, pub amqp.Publishing) error {
	s.queue = queue
	s.pubs = append(s.pubs, pub)
	return s.err
}

func approvedChange() *domain.StatusChange {
	b := &domain.Booking{ID: 10, BookingCode: "BK-1A2B3C4D", ItemID: 7, RenterID: 2, OwnerID: 1, Status: domain.BookingStatusApproved}
	return &domain.StatusChange{
		Booking:    b,
		From:       domain.BookingStatusPending,
		To:         domain.BookingStatusApproved,
		Event:      domain.BookingEventApprove,
		ActorID:    1,
		OccurredAt: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_TransitionCommitted(t *testing.T) {
	t.Run("Publishes persistent JSON", func(t *testing.T) {
		s := &recordingSender{}
		p := &Publisher{queue: "booking.status_changed", sender: s}

		require.NoError(t, p.TransitionCommitted(context.Background(), approvedChange()))
		require.Len(t, s.pubs, 1)
		assert.Equal(t, "booking.status_changed", s.queue)

		pub := s.pubs[0]
		assert.Equal(t, "application/json", pub.ContentType)
		assert.Equal(t, amqp.Persistent, pub.DeliveryMode)
		assert.Equal(t, "booking.approve", pub.Type)

		var evt BookingStatusChanged
		require.NoError(t, json.Unmarshal(pub.Body, &evt))
		assert.Equal(t, int32(10), evt.BookingID)
		assert.Equal(t, "BK-1A2B3C4D", evt.BookingCode)
		assert.Equal(t, domain.BookingStatusPending, evt.From)
		assert.Equal(t, domain.BookingStatusApproved, evt.To)
		assert.Equal(t, int32(1), evt.ActorID)
	})

	t.Run("Send failure is returned", func(t *testing.T) {
		p := &Publisher{queue: "q", sender: &recordingSender{err: errors.New("connection refused")}}
		assert.Error(t, p.TransitionCommitted(context.Background(), approvedChange()))
	})
}

func TestNewBookingStatusChanged_Request(t *testing.T) {
	change := approvedChange()
	change.From = ""
	change.To = domain.BookingStatusPending
	change.Event = domain.BookingEventRequest
	change.ActorID = 2

	raw, err := json.Marshal(NewBookingStatusChanged(change))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "from")
	assert.Equal(t, "request", out["event"])
	assert.Equal(t, "2025-05-30T09:00:00Z", out["occurred_at"])
}
