// Package events publishes committed booking status changes to RabbitMQ so
// other services can follow the booking lifecycle.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
)

// BookingStatusChanged is the message body published for every change.
type BookingStatusChanged struct {
	BookingID   int32                `json:"booking_id"`
	BookingCode string               `json:"booking_code"`
	ItemID      int32                `json:"item_id"`
	RenterID    int32                `json:"renter_id"`
	OwnerID     int32                `json:"owner_id"`
	Event       domain.BookingEvent  `json:"event"`
	From        domain.BookingStatus `json:"from,omitempty"`
	To          domain.BookingStatus `json:"to"`
	ActorID     int32                `json:"actor_id"`
	OccurredAt  time.Time            `json:"occurred_at"`
}

// NewBookingStatusChanged flattens change into its wire form.
func NewBookingStatusChanged(change *domain.StatusChange) BookingStatusChanged {
	b := change.Booking
	return BookingStatusChanged{
		BookingID:   b.ID,
		BookingCode: b.BookingCode,
		ItemID:      b.ItemID,
		RenterID:    b.RenterID,
		OwnerID:     b.OwnerID,
		Event:       change.Event,
		From:        change.From,
		To:          change.To,
		ActorID:     change.ActorID,
		OccurredAt:  change.OccurredAt.UTC(),
	}
}

// sender delivers one message body to a queue.
type sender interface {
	send(ctx context.Context, queue string, pub amqp.Publishing) error
}

// Publisher is a service.TransitionListener.
type Publisher struct {
	queue  string
	sender sender
}

func NewPublisher(url, queue string) *Publisher {
	return &Publisher{queue: queue, sender: &amqpSender{url: url}}
}

func (p *Publisher) TransitionCommitted(ctx context.Context, change *domain.StatusChange) error {
	body, err := json.Marshal(NewBookingStatusChanged(change))
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         "booking." + string(change.Event),
		Body:         body,
	}

	logger.ExternalServiceCall("rabbitmq", "publish", "queue", p.queue, "bookingID", change.Booking.ID, "event", change.Event)
	err = p.sender.send(ctx, p.queue, pub)
	logger.ExternalServiceResult("rabbitmq", "publish", err, "queue", p.queue, "bookingID", change.Booking.ID)
	return err
}

// amqpSender opens a connection per message. Status changes are rare
// enough that holding a channel open is not worth the reconnect logic.
type amqpSender struct {
	url string
}

func (s *amqpSender) send(ctx context.Context, queue string, pub amqp.Publishing) error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	// Default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
