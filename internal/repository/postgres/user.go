package postgres

import (
	"context"
	"database/sql"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, COALESCE(average_rating, 0), total_reviews`

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.AverageRating, &u.TotalReviews)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// GetByIDs loads several users in one round trip. Unknown ids are absent
// from the result.
func (r *userRepository) GetByIDs(ctx context.Context, ids []int32) (map[int32]*domain.User, error) {
	users := make(map[int32]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.AverageRating, &u.TotalReviews); err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}
