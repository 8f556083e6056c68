package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageContent(t *testing.T) {
	offer := int64(25000)
	negative := int64(-1)

	t.Run("Text defaults", func(t *testing.T) {
		c, err := NewMessageContent("", "  hello  ", nil)
		require.NoError(t, err)
		assert.Equal(t, MessageTypeText, c.Type())
		assert.Equal(t, "hello", c.Body())
	})

	t.Run("Price offer", func(t *testing.T) {
		c, err := NewMessageContent(MessageTypePriceOffer, "how about this", &offer)
		require.NoError(t, err)
		po, ok := c.(PriceOfferContent)
		require.True(t, ok)
		assert.Equal(t, int64(25000), po.AmountCents)
	})

	t.Run("Price offer without amount", func(t *testing.T) {
		_, err := NewMessageContent(MessageTypePriceOffer, "offer", nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "price_offer_cents")
	})

	t.Run("Negative offer", func(t *testing.T) {
		_, err := NewMessageContent(MessageTypePriceOffer, "offer", &negative)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Text with amount", func(t *testing.T) {
		_, err := NewMessageContent(MessageTypeText, "hi", &offer)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Empty body", func(t *testing.T) {
		_, err := NewMessageContent(MessageTypeText, "   ", nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "is required", verr.Fields["message"])
	})

	t.Run("Body too long", func(t *testing.T) {
		_, err := NewMessageContent(MessageTypeText, strings.Repeat("a", MaxMessageLength+1), nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := NewMessageContent("sticker", "hi", nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "message_type")
	})
}

func TestChatMessage_MarshalJSON(t *testing.T) {
	t.Run("Price offer keeps type and amount", func(t *testing.T) {
		msg := ChatMessage{ID: 1, BookingID: 2, SenderID: 3, ReceiverID: 4, Content: PriceOfferContent{Text: "offer", AmountCents: 25000}}
		raw, err := json.Marshal(msg)
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "price_offer", out["message_type"])
		assert.Equal(t, float64(25000), out["price_offer_cents"])
		assert.Equal(t, "offer", out["message"])
	})

	t.Run("Text never carries an offer", func(t *testing.T) {
		msg := ChatMessage{ID: 1, Content: TextContent{Text: "hi"}}
		assert.Nil(t, msg.PriceOffer())

		raw, err := json.Marshal(msg)
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "text", out["message_type"])
		assert.Nil(t, out["price_offer_cents"])
	})
}

func TestValidationError_Error(t *testing.T) {
	verr := NewValidationError("start_date", "must not be in the past")
	verr.Add("end_date", "must be after start_date")

	assert.Equal(t, "validation failed: end_date: must be after start_date; start_date: must not be in the past", verr.Error())
	assert.ErrorIs(t, verr, ErrValidation)
	assert.NotErrorIs(t, verr, ErrConflict)
}
