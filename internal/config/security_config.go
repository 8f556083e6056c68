package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// Route names registered by the HTTP router.
const (
	RouteHealthCheck          = "HealthCheck"
	RouteListMyBookings       = "ListMyBookings"
	RouteCreateBooking        = "CreateBooking"
	RouteGetBooking           = "GetBooking"
	RouteUpdateBooking        = "UpdateBookingStatus"
	RouteApplyBookingEvent    = "ApplyBookingEvent"
	RouteListMessages         = "ListMessages"
	RoutePostMessage          = "PostMessage"
	RouteMarkThreadRead       = "MarkThreadRead"
	RouteChatUnreadCount      = "ChatUnreadCount"
	RouteGetNotifications     = "GetNotifications"
	RouteMarkNotificationRead = "MarkNotificationRead"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	RouteHealthCheck: SecurityPublic,

	// Bookings
	RouteListMyBookings:    SecurityAccess,
	RouteCreateBooking:     SecurityAccess,
	RouteGetBooking:        SecurityAccess,
	RouteUpdateBooking:     SecurityAccess,
	RouteApplyBookingEvent: SecurityAccess,

	// Chat
	RouteListMessages:    SecurityAccess,
	RoutePostMessage:     SecurityAccess,
	RouteMarkThreadRead:  SecurityAccess,
	RouteChatUnreadCount: SecurityAccess,

	// Notifications
	RouteGetNotifications:     SecurityAccess,
	RouteMarkNotificationRead: SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAccess
}
