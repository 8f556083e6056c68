package service

import (
	"context"
	"fmt"
	"time"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"
)

type chatService struct {
	bookingRepo repository.BookingRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewChatService(
	bookingRepo repository.BookingRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
) ChatService {
	return &chatService{
		bookingRepo: bookingRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// partyBooking loads the booking and checks that actorID is one of its parties.
func (s *chatService) partyBooking(ctx context.Context, actorID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, hideMissing(err, "chat of", bookingID)
	}
	if !b.IsParty(actorID) {
		return nil, fmt.Errorf("chat of booking %d: %w", bookingID, domain.ErrForbidden)
	}
	return b, nil
}

// PostMessage appends a message to the thread. A price offer is advisory
// and never touches the booking's negotiated amount.
func (s *chatService) PostMessage(ctx context.Context, actorID, bookingID int32, in PostMessageInput) (*domain.ChatMessage, error) {
	logger.EnterMethod("chatService.PostMessage", "actorID", actorID, "bookingID", bookingID, "type", in.MessageType)

	b, err := s.partyBooking(ctx, actorID, bookingID)
	if err != nil {
		logger.ExitMethodWithError("chatService.PostMessage", err, "bookingID", bookingID)
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	content, err := domain.NewMessageContent(domain.MessageType(in.MessageType), in.Message, in.PriceOfferCents)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		BookingID:  b.ID,
		SenderID:   actorID,
		ReceiverID: b.Counterparty(actorID),
		Content:    content,
		CreatedOn:  s.now().UTC(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		logger.ExitMethodWithError("chatService.PostMessage", err, "bookingID", bookingID)
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		logger.Warn("Posted message without sender details", "chatID", msg.ID, "error", err)
	} else {
		msg.Sender = sender
	}

	logger.ExitMethod("chatService.PostMessage", "chatID", msg.ID)
	return msg, nil
}

// MarkThreadRead flips every unread message addressed to actorID. Calling
// it again with no new messages changes nothing.
func (s *chatService) MarkThreadRead(ctx context.Context, actorID, bookingID int32) (int64, error) {
	if _, err := s.partyBooking(ctx, actorID, bookingID); err != nil {
		return 0, err
	}
	return s.chatRepo.MarkThreadRead(ctx, bookingID, actorID)
}

func (s *chatService) ListMessages(ctx context.Context, actorID, bookingID int32) ([]domain.ChatMessage, error) {
	if _, err := s.partyBooking(ctx, actorID, bookingID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListByBooking(ctx, bookingID)
}

func (s *chatService) UnreadCount(ctx context.Context, actorID, bookingID int32) (int32, error) {
	if _, err := s.partyBooking(ctx, actorID, bookingID); err != nil {
		return 0, err
	}
	return s.chatRepo.CountUnread(ctx, bookingID, actorID)
}
