package http

import (
	"net/http"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type messagesResponse struct {
	Messages    []domain.ChatMessage `json:"messages"`
	UnreadCount int32                `json:"unread_count"`
}

type unreadResponse struct {
	UnreadCount int32 `json:"unread_count"`
}

type markReadResponse struct {
	Updated int64 `json:"updated"`
}

// ListMessages handles GET /api/v1/bookings/{id}/chat
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	msgs, err := h.chatService.ListMessages(r.Context(), actorID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: msgs, UnreadCount: unreadFor(msgs, actorID)})
}

// unreadFor counts from the returned page so the number always matches it.
func unreadFor(msgs []domain.ChatMessage, actorID int32) int32 {
	var n int32
	for _, m := range msgs {
		if m.ReceiverID == actorID && !m.IsRead {
			n++
		}
	}
	return n
}

// PostMessage handles POST /api/v1/bookings/{id}/chat
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.PostMessageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.chatService.PostMessage(r.Context(), actorID, bookingID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// MarkThreadRead handles PATCH /api/v1/bookings/{id}/chat/read
func (h *ChatHandler) MarkThreadRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.chatService.MarkThreadRead(r.Context(), actorID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{Updated: updated})
}

// UnreadCount handles GET /api/v1/bookings/{id}/chat/unread
func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.chatService.UnreadCount(r.Context(), actorID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{UnreadCount: n})
}
