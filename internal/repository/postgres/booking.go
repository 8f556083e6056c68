package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"
)

const bookingColumns = `id, booking_code, item_id, renter_id, owner_id, start_date, end_date, duration_days,
	rate_type, rate_amount_cents, deposit_amount_cents, total_amount_cents, negotiated_amount_cents,
	status, payment_status, COALESCE(notes, ''), pickup_confirmed_at, return_confirmed_at, created_on, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var start, end time.Time
	err := row.Scan(&b.ID, &b.BookingCode, &b.ItemID, &b.RenterID, &b.OwnerID, &start, &end, &b.DurationDays,
		&b.RateType, &b.RateAmountCents, &b.DepositAmountCents, &b.TotalAmountCents, &b.NegotiatedAmountCents,
		&b.Status, &b.PaymentStatus, &b.Notes, &b.PickupConfirmedAt, &b.ReturnConfirmedAt, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	b.StartDate = start.Format("2006-01-02")
	b.EndDate = end.Format("2006-01-02")
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "itemID", b.ItemID, "renterID", b.RenterID, "code", b.BookingCode)

	query := `INSERT INTO bookings (booking_code, item_id, renter_id, owner_id, start_date, end_date, duration_days,
	          rate_type, rate_amount_cents, deposit_amount_cents, total_amount_cents, negotiated_amount_cents,
	          status, payment_status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          ON CONFLICT (booking_code) DO NOTHING
	          RETURNING id`
	now := time.Now().UTC()
	notes := sql.NullString{String: b.Notes, Valid: b.Notes != ""}

	logger.DatabaseCall("INSERT", "bookings", "code", b.BookingCode)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, b.BookingCode, b.ItemID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate,
		b.DurationDays, b.RateType, b.RateAmountCents, b.DepositAmountCents, b.TotalAmountCents, b.NegotiatedAmountCents,
		b.Status, b.PaymentStatus, notes, now, now).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)

	// ON CONFLICT DO NOTHING returns no row for a taken code.
	if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
		logger.ExitMethodWithError("bookingRepository.Create", repository.ErrDuplicateBookingCode, "code", b.BookingCode)
		return repository.ErrDuplicateBookingCode
	}
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err, "code", b.BookingCode)
		return err
	}

	b.CreatedOn = now
	b.UpdatedOn = now
	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return b, nil
}

func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return b, nil
}

func (r *bookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_code = $1)`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, code).Scan(&exists)
	return exists, err
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, payment_status=$2, negotiated_amount_cents=$3, pickup_confirmed_at=$4,
	          return_confirmed_at=$5, updated_on=$6 WHERE id=$7`
	if b.UpdatedOn.IsZero() {
		b.UpdatedOn = time.Now().UTC()
	}

	logger.DatabaseCall("UPDATE", "bookings", "bookingID", b.ID, "status", b.Status)
	result, err := conn(ctx, r.db).ExecContext(ctx, query, b.Status, b.PaymentStatus, b.NegotiatedAmountCents,
		b.PickupConfirmedAt, b.ReturnConfirmedAt, b.UpdatedOn, b.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", b.ID)
		return err
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "bookingID", b.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.listByParty(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.listByParty(ctx, "owner_id", ownerID, status, page, pageSize)
}

// listByParty pages through the bookings where column (renter_id or
// owner_id) equals userID. column never comes from user input.
func (r *bookingRepository) listByParty(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	where := ` FROM bookings WHERE ` + column + ` = $1`
	args := []any{userID}
	argIdx := 2
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + where +
		fmt.Sprintf(" ORDER BY created_on DESC, id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, pageOffset(page, pageSize))

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListPendingStartingBefore(ctx context.Context, date string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND start_date < $2 ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, domain.BookingStatusPending, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
