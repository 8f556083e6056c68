package domain

import (
	"fmt"
	"time"
)

// SystemActorID identifies transitions driven by scheduled jobs rather than a user.
const SystemActorID int32 = 0

type BookingEvent string

const (
	BookingEventApprove  BookingEvent = "approve"
	BookingEventReject   BookingEvent = "reject"
	BookingEventPay      BookingEvent = "pay"
	BookingEventPickup   BookingEvent = "pickup"
	BookingEventReturn   BookingEvent = "return"
	BookingEventComplete BookingEvent = "complete"
	BookingEventCancel   BookingEvent = "cancel"
)

// BookingEventRequest accompanies the creation of a booking. Hooks see it
// like any other change but it is not part of the transition table.
const BookingEventRequest BookingEvent = "request"

// PartyRole says which side of a booking may trigger an event.
type PartyRole int

const (
	PartyRoleOwner PartyRole = iota + 1
	PartyRoleRenter
	PartyRoleEither
)

type transitionKey struct {
	from  BookingStatus
	event BookingEvent
}

// bookingTransitions is the complete forward-only state machine.
// Pairs missing from the table are rejected.
var bookingTransitions = map[transitionKey]BookingStatus{
	{BookingStatusPending, BookingEventApprove}:   BookingStatusApproved,
	{BookingStatusPending, BookingEventReject}:    BookingStatusRejected,
	{BookingStatusApproved, BookingEventPay}:      BookingStatusPaid,
	{BookingStatusPaid, BookingEventPickup}:       BookingStatusActive,
	{BookingStatusActive, BookingEventReturn}:     BookingStatusReturned,
	{BookingStatusReturned, BookingEventComplete}: BookingStatusCompleted,
	{BookingStatusPending, BookingEventCancel}:    BookingStatusCancelled,
	{BookingStatusApproved, BookingEventCancel}:   BookingStatusCancelled,
	{BookingStatusPaid, BookingEventCancel}:       BookingStatusCancelled,
}

var bookingEventActors = map[BookingEvent]PartyRole{
	BookingEventApprove:  PartyRoleOwner,
	BookingEventReject:   PartyRoleOwner,
	BookingEventPay:      PartyRoleRenter,
	BookingEventPickup:   PartyRoleEither,
	BookingEventReturn:   PartyRoleEither,
	BookingEventComplete: PartyRoleOwner,
	BookingEventCancel:   PartyRoleEither,
}

func ParseBookingEvent(s string) (BookingEvent, error) {
	e := BookingEvent(s)
	if _, ok := bookingEventActors[e]; !ok {
		return "", NewValidationError("event", fmt.Sprintf("unknown booking event %q", s))
	}
	return e, nil
}

// EventForTargetStatus maps the owner-facing target statuses onto events.
func EventForTargetStatus(target BookingStatus) (BookingEvent, bool) {
	switch target {
	case BookingStatusApproved:
		return BookingEventApprove, true
	case BookingStatusRejected:
		return BookingEventReject, true
	}
	return "", false
}

// NextStatus looks up the transition table.
func NextStatus(from BookingStatus, event BookingEvent) (BookingStatus, error) {
	to, ok := bookingTransitions[transitionKey{from, event}]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, event, from)
	}
	return to, nil
}

// CanTrigger reports whether userID holds the role the event requires.
// The system actor may trigger any event.
func (e BookingEvent) CanTrigger(b *Booking, userID int32) bool {
	if userID == SystemActorID {
		return true
	}
	switch bookingEventActors[e] {
	case PartyRoleOwner:
		return userID == b.OwnerID
	case PartyRoleRenter:
		return userID == b.RenterID
	case PartyRoleEither:
		return b.IsParty(userID)
	}
	return false
}

// StatusChange describes one applied transition.
type StatusChange struct {
	Booking    *Booking
	From       BookingStatus
	To         BookingStatus
	Event      BookingEvent
	ActorID    int32
	OccurredAt time.Time
}

// Apply moves the booking along the state machine and updates the labels
// that accompany each edge. The booking is left untouched on error.
func (b *Booking) Apply(event BookingEvent, actorID int32, at time.Time) (*StatusChange, error) {
	to, err := NextStatus(b.Status, event)
	if err != nil {
		return nil, err
	}

	change := &StatusChange{
		Booking:    b,
		From:       b.Status,
		To:         to,
		Event:      event,
		ActorID:    actorID,
		OccurredAt: at,
	}

	switch event {
	case BookingEventPay:
		b.PaymentStatus = PaymentStatusPaid
	case BookingEventPickup:
		t := at
		b.PickupConfirmedAt = &t
	case BookingEventReturn:
		t := at
		b.ReturnConfirmedAt = &t
	case BookingEventCancel:
		if b.PaymentStatus == PaymentStatusPaid {
			b.PaymentStatus = PaymentStatusRefunded
		}
	}
	b.Status = to
	b.UpdatedOn = at
	return change, nil
}
