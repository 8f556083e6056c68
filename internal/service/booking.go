package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"sewa-backend/internal/domain"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/repository"
	"sewa-backend/internal/utils"
)

const (
	defaultPageSize int32 = 10
	maxPageSize     int32 = 100
)

type bookingService struct {
	tx          repository.Transactor
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	chatRepo    repository.ChatRepository
	hooks       *TransitionHooks
	now         func() time.Time
	newCode     func() string
}

// BookingOption customises a BookingService.
type BookingOption func(*bookingService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BookingOption {
	return func(s *bookingService) { s.now = now }
}

// WithCodeGenerator replaces NewBookingCode.
func WithCodeGenerator(gen func() string) BookingOption {
	return func(s *bookingService) { s.newCode = gen }
}

func NewBookingService(
	tx repository.Transactor,
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	hooks *TransitionHooks,
	opts ...BookingOption,
) BookingService {
	s := &bookingService{
		tx:          tx,
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		hooks:       hooks,
		now:         time.Now,
		newCode:     NewBookingCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, actorID int32, in CreateBookingInput) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "actorID", actorID, "itemID", in.ItemID)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "invalid input")
		return nil, err
	}

	var change *domain.StatusChange
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		// Availability and ownership win over any problem with the dates.
		if !item.IsAvailable() {
			return domain.ErrItemUnavailable
		}
		if item.OwnerID == actorID {
			return domain.ErrSelfRental
		}

		start, end, err := s.checkBookingWindow(in)
		if err != nil {
			return err
		}

		quote, err := utils.QuoteBooking(item, domain.RateType(in.RateType), start, end)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		b := &domain.Booking{
			ItemID:             item.ID,
			RenterID:           actorID,
			OwnerID:            item.OwnerID,
			StartDate:          start.Format(utils.DateLayout),
			EndDate:            end.Format(utils.DateLayout),
			DurationDays:       quote.DurationDays,
			RateType:           quote.RateType,
			RateAmountCents:    quote.RateAmountCents,
			DepositAmountCents: quote.DepositAmountCents,
			TotalAmountCents:   quote.TotalAmountCents,
			Status:             domain.BookingStatusPending,
			PaymentStatus:      domain.PaymentStatusUnpaid,
			Notes:              in.Notes,
		}
		if err := s.createWithFreshCode(ctx, b); err != nil {
			return err
		}

		change = &domain.StatusChange{
			Booking:    b,
			To:         domain.BookingStatusPending,
			Event:      domain.BookingEventRequest,
			ActorID:    actorID,
			OccurredAt: now,
		}
		return s.hooks.runInTx(ctx, change)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "actorID", actorID, "itemID", in.ItemID)
		return nil, err
	}

	s.hooks.afterCommit(ctx, change)
	logger.ExitMethod("bookingService.CreateBooking", "bookingID", change.Booking.ID, "code", change.Booking.BookingCode)
	return change.Booking, nil
}

// checkBookingWindow parses the dates and checks the rental window.
func (s *bookingService) checkBookingWindow(in CreateBookingInput) (time.Time, time.Time, error) {
	verr := &domain.ValidationError{}
	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		verr.Add("start_date", err.Error())
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		verr.Add("end_date", err.Error())
	}
	if verr.HasErrors() {
		return time.Time{}, time.Time{}, verr
	}

	if start.Before(utils.TruncateToDate(s.now().UTC())) {
		verr.Add("start_date", "must be today or later")
	}
	if !end.After(start) {
		verr.Add("end_date", "must be after start_date")
	}
	if verr.HasErrors() {
		return time.Time{}, time.Time{}, verr
	}
	return start, end, nil
}

// hideMissing turns a missing booking into the same forbidden answer a
// stranger gets for an existing one, so ids cannot be guessed.
func hideMissing(err error, op string, bookingID int32) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s booking %d: %w", op, bookingID, domain.ErrForbidden)
	}
	return err
}

func (s *bookingService) GetBooking(ctx context.Context, actorID, bookingID int32) (*domain.BookingDetail, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, hideMissing(err, "view", bookingID)
	}
	if !b.IsParty(actorID) {
		return nil, fmt.Errorf("view booking %d: %w", bookingID, domain.ErrForbidden)
	}

	item, err := s.itemRepo.GetByID(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, []int32{b.RenterID, b.OwnerID})
	if err != nil {
		return nil, err
	}
	messages, err := s.chatRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return &domain.BookingDetail{
		Booking:  b,
		Item:     item,
		Renter:   users[b.RenterID],
		Owner:    users[b.OwnerID],
		Messages: messages,
	}, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, actorID, bookingID int32, in UpdateBookingStatusInput) (*domain.Booking, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	event, ok := domain.EventForTargetStatus(domain.BookingStatus(in.Status))
	if !ok {
		return nil, domain.NewValidationError("status", "must be one of: approved, rejected")
	}
	return s.applyEvent(ctx, actorID, bookingID, event, in.NegotiatedAmountCents)
}

func (s *bookingService) ApplyEvent(ctx context.Context, actorID, bookingID int32, event domain.BookingEvent) (*domain.Booking, error) {
	if _, err := domain.ParseBookingEvent(string(event)); err != nil {
		return nil, err
	}
	return s.applyEvent(ctx, actorID, bookingID, event, nil)
}

// applyEvent locks the booking, checks the actor, moves it along the state
// machine and runs the hooks, all in one transaction.
func (s *bookingService) applyEvent(ctx context.Context, actorID, bookingID int32, event domain.BookingEvent, negotiated *int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.applyEvent", "actorID", actorID, "bookingID", bookingID, "event", event)

	var change *domain.StatusChange
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return hideMissing(err, string(event), bookingID)
		}
		if !event.CanTrigger(b, actorID) {
			return fmt.Errorf("%s booking %d: %w", event, bookingID, domain.ErrForbidden)
		}

		change, err = b.Apply(event, actorID, s.now().UTC())
		if err != nil {
			return err
		}
		if negotiated != nil {
			amount := *negotiated
			b.NegotiatedAmountCents = &amount
		}
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return err
		}
		return s.hooks.runInTx(ctx, change)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.applyEvent", err, "bookingID", bookingID, "event", event)
		return nil, err
	}

	s.hooks.afterCommit(ctx, change)
	logger.ExitMethod("bookingService.applyEvent", "bookingID", bookingID, "from", change.From, "to", change.To)
	return change.Booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actorID int32, status string, page, pageSize int32) (*domain.BookingLists, error) {
	if status != "" && !domain.BookingStatus(status).Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown booking status %q", status))
	}
	page, pageSize = normalizePage(page, pageSize)

	rentals, rentalsTotal, err := s.bookingRepo.ListByRenter(ctx, actorID, status, page, pageSize)
	if err != nil {
		return nil, err
	}
	lendings, lendingsTotal, err := s.bookingRepo.ListByOwner(ctx, actorID, status, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &domain.BookingLists{
		Rentals:       rentals,
		RentalsTotal:  rentalsTotal,
		Lendings:      lendings,
		LendingsTotal: lendingsTotal,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *bookingService) ExpireStaleRequests(ctx context.Context, today time.Time) (int, error) {
	cutoff := utils.TruncateToDate(today).Format(utils.DateLayout)
	stale, err := s.bookingRepo.ListPendingStartingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		// Each booking gets its own transaction so one failure does not
		// hold back the rest.
		if _, err := s.applyEvent(ctx, domain.SystemActorID, b.ID, domain.BookingEventCancel, nil); err != nil {
			logger.Error("Failed to expire booking", "bookingID", b.ID, "error", err)
			continue
		}
		expired++
	}
	logger.Info("Expired stale booking requests", "cutoff", cutoff, "candidates", len(stale), "expired", expired)
	return expired, nil
}

// maxPage keeps (page-1)*maxPageSize inside int32.
const maxPage = math.MaxInt32 / maxPageSize

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
