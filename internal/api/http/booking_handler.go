package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// ListMyBookings handles GET /api/v1/bookings?status=&page=&page_size=
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	lists, err := h.bookingService.ListMyBookings(r.Context(), actorID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in service.CreateBookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), actorID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.bookingService.GetBooking(r.Context(), actorID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/{id}
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.UpdateBookingStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(r.Context(), actorID, bookingID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// ApplyEvent handles POST /api/v1/bookings/{id}/events/{event}
func (h *BookingHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	event := domain.BookingEvent(mux.Vars(r)["event"])
	booking, err := h.bookingService.ApplyEvent(r.Context(), actorID, bookingID, event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
