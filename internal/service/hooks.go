package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"
)

// TransitionHook runs inside the transaction that applied a change.
// Returning an error rolls the whole change back.
type TransitionHook interface {
	OnTransition(ctx context.Context, change *domain.StatusChange) error
}

// TransitionListener is told about a change once it has committed.
// Errors are logged and never reach the caller.
type TransitionListener interface {
	TransitionCommitted(ctx context.Context, change *domain.StatusChange) error
}

// TransitionHooks is the set of extensions a BookingService drives.
type TransitionHooks struct {
	Hooks     []TransitionHook
	Listeners []TransitionListener
}

func (h *TransitionHooks) runInTx(ctx context.Context, change *domain.StatusChange) error {
	if h == nil {
		return nil
	}
	for _, hook := range h.Hooks {
		if err := hook.OnTransition(ctx, change); err != nil {
			return fmt.Errorf("transition hook: %w", err)
		}
	}
	return nil
}

func (h *TransitionHooks) afterCommit(ctx context.Context, change *domain.StatusChange) {
	if h == nil {
		return
	}
	for _, l := range h.Listeners {
		if err := l.TransitionCommitted(ctx, change); err != nil {
			logger.Error("Transition listener failed", "bookingID", change.Booking.ID, "event", change.Event, "error", err)
		}
	}
}

// DescribeChange renders a one-line, human readable summary of change.
func DescribeChange(change *domain.StatusChange) string {
	code := change.Booking.BookingCode
	switch change.Event {
	case domain.BookingEventRequest:
		return fmt.Sprintf("Booking %s requested for %s to %s", code, change.Booking.StartDate, change.Booking.EndDate)
	case domain.BookingEventApprove:
		if n := change.Booking.NegotiatedAmountCents; n != nil {
			return fmt.Sprintf("Booking %s was approved at %s", code, FormatCents(*n))
		}
		return fmt.Sprintf("Booking %s was approved", code)
	case domain.BookingEventReject:
		return fmt.Sprintf("Booking %s was rejected", code)
	case domain.BookingEventPay:
		return fmt.Sprintf("Booking %s was paid", code)
	case domain.BookingEventPickup:
		return fmt.Sprintf("Item for booking %s was picked up", code)
	case domain.BookingEventReturn:
		return fmt.Sprintf("Item for booking %s was returned", code)
	case domain.BookingEventComplete:
		return fmt.Sprintf("Booking %s was completed", code)
	case domain.BookingEventCancel:
		if change.ActorID == domain.SystemActorID {
			return fmt.Sprintf("Booking %s expired without a response and was cancelled", code)
		}
		return fmt.Sprintf("Booking %s was cancelled", code)
	}
	return fmt.Sprintf("Booking %s is now %s", code, change.To)
}

// FormatCents renders minor units as a decimal amount, 120000 -> "1200.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// systemMessageHook posts the change summary into the booking's chat thread.
type systemMessageHook struct {
	chatRepo repository.ChatRepository
}

func NewSystemMessageHook(chatRepo repository.ChatRepository) TransitionHook {
	return &systemMessageHook{chatRepo: chatRepo}
}

func (h *systemMessageHook) OnTransition(ctx context.Context, change *domain.StatusChange) error {
	b := change.Booking
	// System-driven changes are attributed to the owner.
	sender := change.ActorID
	if !b.IsParty(sender) {
		sender = b.OwnerID
	}
	msg := &domain.ChatMessage{
		BookingID:  b.ID,
		SenderID:   sender,
		ReceiverID: b.Counterparty(sender),
		Content:    domain.SystemContent{Text: DescribeChange(change)},
		CreatedOn:  change.OccurredAt,
	}
	return h.chatRepo.Create(ctx, msg)
}

// notificationHook drops an inbox notification for every party other than
// the actor.
type notificationHook struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationHook(noteRepo repository.NotificationRepository) TransitionHook {
	return &notificationHook{noteRepo: noteRepo}
}

func (h *notificationHook) OnTransition(ctx context.Context, change *domain.StatusChange) error {
	b := change.Booking
	for _, userID := range Recipients(change) {
		note := &domain.Notification{
			UserID:  userID,
			Title:   notificationTitle(change),
			Message: DescribeChange(change),
			Attributes: map[string]string{
				"type":         "BOOKING_" + strings.ToUpper(string(change.Event)),
				"booking_id":   strconv.Itoa(int(b.ID)),
				"booking_code": b.BookingCode,
				"status":       string(change.To),
			},
			CreatedOn: change.OccurredAt,
		}
		if err := h.noteRepo.Create(ctx, note); err != nil {
			return err
		}
	}
	return nil
}

// Recipients returns the parties to tell about change: the counterparty of
// the actor, or both parties when the system made the change.
func Recipients(change *domain.StatusChange) []int32 {
	b := change.Booking
	if !b.IsParty(change.ActorID) {
		return []int32{b.RenterID, b.OwnerID}
	}
	return []int32{b.Counterparty(change.ActorID)}
}

func notificationTitle(change *domain.StatusChange) string {
	switch change.Event {
	case domain.BookingEventRequest:
		return "New Booking Request"
	case domain.BookingEventCancel:
		return "Booking Cancelled"
	}
	return "Booking " + strings.ToUpper(string(change.To[:1])) + string(change.To[1:])
}
