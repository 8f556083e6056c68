package utils

import (
	"testing"
	"time"

	"sewa-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cents(v int64) *int64 { return &v }

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 2024, date.Year())
		assert.Equal(t, time.January, date.Month())
		assert.Equal(t, 15, date.Day())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
	})
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		start    string
		end      string
		expected int32
	}{
		{"2025-01-10", "2025-01-12", 3},
		{"2025-01-10", "2025-01-11", 2},
		{"2025-01-31", "2025-02-01", 2},
		{"2024-02-28", "2024-03-01", 3}, // leap year
		{"2023-02-28", "2023-03-01", 2},
		{"2025-03-29", "2025-04-02", 5},
	}

	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			start, err := ParseDate(tt.start)
			require.NoError(t, err)
			end, err := ParseDate(tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, InclusiveDays(start, end))
		})
	}
}

func TestQuoteBooking(t *testing.T) {
	start, _ := ParseDate("2025-06-01")
	end, _ := ParseDate("2025-06-05")

	t.Run("Flat fee ignores duration", func(t *testing.T) {
		item := &domain.Item{DailyRateCents: cents(100), DepositCents: cents(50)}
		q, err := QuoteBooking(item, domain.RateTypeDaily, start, end)
		require.NoError(t, err)
		assert.Equal(t, int32(5), q.DurationDays)
		assert.Equal(t, int64(100), q.RateAmountCents)
		assert.Equal(t, int64(150), q.TotalAmountCents)
		require.NotNil(t, q.DepositAmountCents)
		assert.Equal(t, int64(50), *q.DepositAmountCents)
	})

	t.Run("Weekly tier", func(t *testing.T) {
		item := &domain.Item{DailyRateCents: cents(100), WeeklyRateCents: cents(600)}
		q, err := QuoteBooking(item, domain.RateTypeWeekly, start, end)
		require.NoError(t, err)
		assert.Equal(t, int64(600), q.RateAmountCents)
		assert.Equal(t, int64(600), q.TotalAmountCents)
		assert.Nil(t, q.DepositAmountCents)
	})

	t.Run("Missing tier falls back to daily", func(t *testing.T) {
		item := &domain.Item{DailyRateCents: cents(100), DepositCents: cents(10)}
		q, err := QuoteBooking(item, domain.RateTypeMonthly, start, end)
		require.NoError(t, err)
		assert.Equal(t, int64(100), q.RateAmountCents)
		assert.Equal(t, int64(110), q.TotalAmountCents)
	})

	t.Run("No price at all", func(t *testing.T) {
		item := &domain.Item{}
		_, err := QuoteBooking(item, domain.RateTypeWeekly, start, end)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Deposit snapshot is a copy", func(t *testing.T) {
		deposit := cents(50)
		item := &domain.Item{DailyRateCents: cents(100), DepositCents: deposit}
		q, err := QuoteBooking(item, domain.RateTypeDaily, start, end)
		require.NoError(t, err)
		*deposit = 999
		assert.Equal(t, int64(50), *q.DepositAmountCents)
	})
}
