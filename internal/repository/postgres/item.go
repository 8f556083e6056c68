package postgres

import (
	"context"
	"database/sql"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	item := &domain.Item{}
	query := `SELECT id, owner_id, name, daily_rate_cents, weekly_rate_cents, monthly_rate_cents, deposit_cents, status
	          FROM items WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&item.ID, &item.OwnerID, &item.Name,
		&item.DailyRateCents, &item.WeeklyRateCents, &item.MonthlyRateCents, &item.DepositCents, &item.Status)
	if err != nil {
		return nil, notFound(err, "item")
	}
	return item, nil
}
