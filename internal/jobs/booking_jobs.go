package jobs

import (
	"context"
	"time"

	"sewa-backend/internal/logger"
)

const expirePendingBookingsTimeout = 5 * time.Minute

// ExpirePendingBookings cancels pending requests whose start date has
// already passed without an answer from the owner.
func (jr *JobRunner) ExpirePendingBookings() {
	jr.runWithRecovery("ExpirePendingBookings", func() {
		ctx, cancel := context.WithTimeout(context.Background(), expirePendingBookingsTimeout)
		defer cancel()

		expired, err := jr.services.Booking.ExpireStaleRequests(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to expire pending bookings", "expired", expired, "error", err)
			return
		}
		logger.Info("Expired pending bookings", "count", expired)
	})
}
