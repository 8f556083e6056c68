package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"
)

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	logger.EnterMethod("chatRepository.Create", "bookingID", m.BookingID, "senderID", m.SenderID, "type", m.Type())

	query := `INSERT INTO chats (booking_id, sender_id, receiver_id, message, message_type, price_offer_cents, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if m.CreatedOn.IsZero() {
		m.CreatedOn = time.Now().UTC()
	}

	logger.DatabaseCall("INSERT", "chats", "bookingID", m.BookingID)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, m.BookingID, m.SenderID, m.ReceiverID, m.Content.Body(), m.Type(),
		m.PriceOffer(), m.IsRead, m.CreatedOn).Scan(&m.ID)
	logger.DatabaseResult("INSERT", 1, err, "chatID", m.ID)

	if err != nil {
		logger.ExitMethodWithError("chatRepository.Create", err, "bookingID", m.BookingID)
		return err
	}
	logger.ExitMethod("chatRepository.Create", "chatID", m.ID)
	return nil
}

// ListByBooking returns the thread oldest first with each sender attached.
func (r *chatRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.ChatMessage, error) {
	query := `SELECT c.id, c.booking_id, c.sender_id, c.receiver_id, c.message, c.message_type, c.price_offer_cents,
	                 c.is_read, c.created_on, u.name, COALESCE(u.average_rating, 0), u.total_reviews
	          FROM chats c JOIN users u ON u.id = c.sender_id
	          WHERE c.booking_id = $1 ORDER BY c.created_on, c.id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		var body string
		var msgType domain.MessageType
		var offer *int64
		sender := &domain.User{}
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.ReceiverID, &body, &msgType, &offer,
			&m.IsRead, &m.CreatedOn, &sender.Name, &sender.AverageRating, &sender.TotalReviews); err != nil {
			return nil, err
		}
		content, err := contentFromRow(msgType, body, offer)
		if err != nil {
			return nil, fmt.Errorf("chat %d: %w", m.ID, err)
		}
		sender.ID = m.SenderID
		m.Content = content
		m.Sender = sender
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// contentFromRow rebuilds the message variant from stored columns without
// re-running input validation.
func contentFromRow(msgType domain.MessageType, body string, offer *int64) (domain.MessageContent, error) {
	switch msgType {
	case domain.MessageTypeText:
		return domain.TextContent{Text: body}, nil
	case domain.MessageTypeSystem:
		return domain.SystemContent{Text: body}, nil
	case domain.MessageTypePriceOffer:
		if offer == nil {
			return nil, fmt.Errorf("price offer without amount")
		}
		return domain.PriceOfferContent{Text: body, AmountCents: *offer}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", msgType)
}

func (r *chatRepository) MarkThreadRead(ctx context.Context, bookingID, receiverID int32) (int64, error) {
	query := `UPDATE chats SET is_read = TRUE WHERE booking_id = $1 AND receiver_id = $2 AND is_read = FALSE`
	logger.DatabaseCall("UPDATE", "chats", "bookingID", bookingID, "receiverID", receiverID)
	result, err := conn(ctx, r.db).ExecContext(ctx, query, bookingID, receiverID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", bookingID)
		return 0, err
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "bookingID", bookingID)
	return rows, err
}

func (r *chatRepository) CountUnread(ctx context.Context, bookingID, receiverID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM chats WHERE booking_id = $1 AND receiver_id = $2 AND is_read = FALSE`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, bookingID, receiverID).Scan(&count)
	return count, err
}
