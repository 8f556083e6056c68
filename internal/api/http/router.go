package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sewa-backend/internal/config"
)

// RouterDeps are the collaborators the HTTP API is built from.
type RouterDeps struct {
	Bookings      *BookingHandler
	Chat          *ChatHandler
	Notifications *NotificationHandler
	Auth          *AuthMiddleware
	RateLimiter   *RateLimiter
	DB            Pinger
}

// NewRouter registers every route under the names the security table uses.
func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger, Recoverer, d.Auth.Middleware)

	r.Handle("/health-check", HealthCheck(d.DB)).Methods(http.MethodGet).Name(config.RouteHealthCheck)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/bookings", d.Bookings.ListMyBookings).Methods(http.MethodGet).Name(config.RouteListMyBookings)
	api.HandleFunc("/bookings", d.Bookings.CreateBooking).Methods(http.MethodPost).Name(config.RouteCreateBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}", d.Bookings.GetBooking).Methods(http.MethodGet).Name(config.RouteGetBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}", d.Bookings.UpdateBookingStatus).Methods(http.MethodPatch).Name(config.RouteUpdateBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}/events/{event}", d.Bookings.ApplyEvent).Methods(http.MethodPost).Name(config.RouteApplyBookingEvent)

	api.HandleFunc("/bookings/{id:[0-9]+}/chat", d.Chat.ListMessages).Methods(http.MethodGet).Name(config.RouteListMessages)
	api.Handle("/bookings/{id:[0-9]+}/chat", d.RateLimiter.Limit(http.HandlerFunc(d.Chat.PostMessage))).Methods(http.MethodPost).Name(config.RoutePostMessage)
	api.HandleFunc("/bookings/{id:[0-9]+}/chat/read", d.Chat.MarkThreadRead).Methods(http.MethodPatch).Name(config.RouteMarkThreadRead)
	api.HandleFunc("/bookings/{id:[0-9]+}/chat/unread", d.Chat.UnreadCount).Methods(http.MethodGet).Name(config.RouteChatUnreadCount)

	api.HandleFunc("/notifications", d.Notifications.GetNotifications).Methods(http.MethodGet).Name(config.RouteGetNotifications)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", d.Notifications.MarkAsRead).Methods(http.MethodPatch).Name(config.RouteMarkNotificationRead)

	return r
}
