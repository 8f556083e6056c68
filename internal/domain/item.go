package domain

type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "available"
	ItemStatusRented      ItemStatus = "rented"
	ItemStatusMaintenance ItemStatus = "maintenance"
	ItemStatusInactive    ItemStatus = "inactive"
)

// Item is the catalog record a booking is made against. The booking core
// only reads it.
type Item struct {
	ID               int32      `json:"id"`
	OwnerID          int32      `json:"owner_id"`
	Name             string     `json:"name"`
	DailyRateCents   *int64     `json:"daily_rate_cents,omitempty"`
	WeeklyRateCents  *int64     `json:"weekly_rate_cents,omitempty"`
	MonthlyRateCents *int64     `json:"monthly_rate_cents,omitempty"`
	DepositCents     *int64     `json:"deposit_cents,omitempty"`
	Status           ItemStatus `json:"status"`
}

func (i *Item) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}

// RateFor returns the rate of the requested tier, or nil if the item has none.
func (i *Item) RateFor(t RateType) *int64 {
	switch t {
	case RateTypeDaily:
		return i.DailyRateCents
	case RateTypeWeekly:
		return i.WeeklyRateCents
	case RateTypeMonthly:
		return i.MonthlyRateCents
	}
	return nil
}
