package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxMessageLength = 1000

type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypePriceOffer MessageType = "price_offer"
	MessageTypeSystem     MessageType = "system"
)

// MessageContent is the payload of a chat message. The implementations are
// TextContent, PriceOfferContent and SystemContent; a price offer amount only
// exists on PriceOfferContent.
type MessageContent interface {
	Type() MessageType
	Body() string
	isMessageContent()
}

type TextContent struct {
	Text string
}

func (c TextContent) Type() MessageType { return MessageTypeText }
func (c TextContent) Body() string      { return c.Text }
func (TextContent) isMessageContent()   {}

type PriceOfferContent struct {
	Text        string
	AmountCents int64
}

func (c PriceOfferContent) Type() MessageType { return MessageTypePriceOffer }
func (c PriceOfferContent) Body() string      { return c.Text }
func (PriceOfferContent) isMessageContent()   {}

type SystemContent struct {
	Text string
}

func (c SystemContent) Type() MessageType { return MessageTypeSystem }
func (c SystemContent) Body() string      { return c.Text }
func (SystemContent) isMessageContent()   {}

// NewMessageContent builds the variant named by msgType and checks the
// body and the offer amount against it.
func NewMessageContent(msgType MessageType, body string, priceOfferCents *int64) (MessageContent, error) {
	verr := &ValidationError{}
	body = strings.TrimSpace(body)
	if body == "" {
		verr.Add("message", "is required")
	} else if utf8.RuneCountInString(body) > MaxMessageLength {
		verr.Add("message", fmt.Sprintf("must be at most %d characters", MaxMessageLength))
	}

	var content MessageContent
	switch msgType {
	case MessageTypeText, "":
		if priceOfferCents != nil {
			verr.Add("price_offer_cents", "is only allowed on price_offer messages")
		}
		content = TextContent{Text: body}
	case MessageTypePriceOffer:
		switch {
		case priceOfferCents == nil:
			verr.Add("price_offer_cents", "is required for price_offer messages")
		case *priceOfferCents < 0:
			verr.Add("price_offer_cents", "must be at least 0")
		default:
			content = PriceOfferContent{Text: body, AmountCents: *priceOfferCents}
		}
	case MessageTypeSystem:
		if priceOfferCents != nil {
			verr.Add("price_offer_cents", "is only allowed on price_offer messages")
		}
		content = SystemContent{Text: body}
	default:
		verr.Add("message_type", fmt.Sprintf("unknown message type %q", msgType))
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return content, nil
}

type ChatMessage struct {
	ID         int32          `json:"id"`
	BookingID  int32          `json:"booking_id"`
	SenderID   int32          `json:"sender_id"`
	ReceiverID int32          `json:"receiver_id"`
	Sender     *User          `json:"sender,omitempty"`
	Content    MessageContent `json:"-"`
	IsRead     bool           `json:"is_read"`
	CreatedOn  time.Time      `json:"created_on"`
}

// PriceOffer returns the offered amount, or nil for non-offer messages.
func (m *ChatMessage) PriceOffer() *int64 {
	if offer, ok := m.Content.(PriceOfferContent); ok {
		amount := offer.AmountCents
		return &amount
	}
	return nil
}

func (m *ChatMessage) Type() MessageType {
	if m.Content == nil {
		return MessageTypeText
	}
	return m.Content.Type()
}

func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID              int32       `json:"id"`
		BookingID       int32       `json:"booking_id"`
		SenderID        int32       `json:"sender_id"`
		ReceiverID      int32       `json:"receiver_id"`
		Sender          *User       `json:"sender,omitempty"`
		Message         string      `json:"message"`
		MessageType     MessageType `json:"message_type"`
		PriceOfferCents *int64      `json:"price_offer_cents"`
		IsRead          bool        `json:"is_read"`
		CreatedOn       time.Time   `json:"created_on"`
	}
	var body string
	if m.Content != nil {
		body = m.Content.Body()
	}
	return json.Marshal(wire{
		ID:              m.ID,
		BookingID:       m.BookingID,
		SenderID:        m.SenderID,
		ReceiverID:      m.ReceiverID,
		Sender:          m.Sender,
		Message:         body,
		MessageType:     m.Type(),
		PriceOfferCents: m.PriceOffer(),
		IsRead:          m.IsRead,
		CreatedOn:       m.CreatedOn,
	})
}
