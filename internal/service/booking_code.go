package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	bookingCodePrefix      = "BK-"
	maxBookingCodeAttempts = 10
)

// NewBookingCode returns "BK-" followed by eight uppercase hex characters
// taken from the SHA-256 of a random UUID.
func NewBookingCode() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return bookingCodePrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

// createWithFreshCode inserts b under a newly generated code. The pre-check
// skips codes already visible; the unique constraint settles concurrent
// races and a lost race is retried with a new code.
func (s *bookingService) createWithFreshCode(ctx context.Context, b *domain.Booking) error {
	for attempt := 1; attempt <= maxBookingCodeAttempts; attempt++ {
		code := s.newCode()
		exists, err := s.bookingRepo.CodeExists(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			logger.Warn("Booking code already taken, regenerating", "code", code, "attempt", attempt)
			continue
		}

		b.BookingCode = code
		err = s.bookingRepo.Create(ctx, b)
		if errors.Is(err, repository.ErrDuplicateBookingCode) {
			logger.Warn("Booking code lost a race, regenerating", "code", code, "attempt", attempt)
			continue
		}
		return err
	}
	b.BookingCode = ""
	return fmt.Errorf("no unique booking code after %d attempts", maxBookingCodeAttempts)
}
