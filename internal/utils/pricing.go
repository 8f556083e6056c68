package utils

import (
	"fmt"
	"time"

	"sewa-backend/internal/domain"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// BookingQuote is the price snapshot taken when a booking is created.
type BookingQuote struct {
	DurationDays       int32
	RateType           domain.RateType
	RateAmountCents    int64
	DepositAmountCents *int64
	TotalAmountCents   int64
}

// ParseDate parses a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	return d, nil
}

// TruncateToDate drops the clock part of t, keeping its calendar date.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts calendar days from start to end, both included.
// 2025-01-10 .. 2025-01-12 is 3 days.
func InclusiveDays(start, end time.Time) int32 {
	s := TruncateToDate(start)
	e := TruncateToDate(end)
	return int32(e.Sub(s).Hours()/24) + 1
}

// ResolveRate picks the item's rate for the tier, falling back to the daily
// rate when the tier has no price.
func ResolveRate(item *domain.Item, rateType domain.RateType) (int64, error) {
	if rate := item.RateFor(rateType); rate != nil {
		return *rate, nil
	}
	if item.DailyRateCents != nil {
		return *item.DailyRateCents, nil
	}
	return 0, fmt.Errorf("%w: item has no price for %s rentals", domain.ErrConflict, rateType)
}

// QuoteBooking computes the booking amounts. The total is a flat fee per
// booking: rate plus deposit, not multiplied by the duration.
func QuoteBooking(item *domain.Item, rateType domain.RateType, start, end time.Time) (BookingQuote, error) {
	rate, err := ResolveRate(item, rateType)
	if err != nil {
		return BookingQuote{}, err
	}

	var deposit *int64
	total := rate
	if item.DepositCents != nil {
		d := *item.DepositCents
		deposit = &d
		total += d
	}

	return BookingQuote{
		DurationDays:       InclusiveDays(start, end),
		RateType:           rateType,
		RateAmountCents:    rate,
		DepositAmountCents: deposit,
		TotalAmountCents:   total,
	}, nil
}
