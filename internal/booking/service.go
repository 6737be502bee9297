package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/linhlinh38/Bookminton/internal/apperror"
	"github.com/linhlinh38/Bookminton/internal/auth"
	"github.com/linhlinh38/Bookminton/internal/branch"
	"github.com/linhlinh38/Bookminton/internal/clock"
	"github.com/linhlinh38/Bookminton/internal/db"
	"github.com/linhlinh38/Bookminton/internal/email"
	"github.com/linhlinh38/Bookminton/internal/events"
	"github.com/linhlinh38/Bookminton/internal/logger"
	"github.com/linhlinh38/Bookminton/internal/metrics"
	"github.com/linhlinh38/Bookminton/internal/schedule"
	"github.com/linhlinh38/Bookminton/internal/user"
)

var (
	ErrBookingNotFound       = apperror.NotFound("booking not found")
	ErrInvalidDateRange      = apperror.Validation("start date must not be after end date")
	ErrInvalidBookingType    = apperror.Validation("unknown booking type")
	ErrSlotsRequired         = apperror.Validation("at least one slot is required")
	ErrScheduleDateRequired  = apperror.Validation("schedule date is required")
	ErrNoOccurrence          = apperror.Validation("no day in the date range falls on the weekday of the schedule date")
	ErrInvalidDuration       = apperror.Validation("duration must be positive")
	ErrInsufficientHours     = apperror.Validation("remaining hours are less than the requested duration")
	ErrNotCustomer           = apperror.Validation("account is not a customer")
	ErrNotOwner              = apperror.Validation("booking belongs to another customer")
	ErrNotYourBooking        = apperror.Forbidden("booking belongs to another customer")
	ErrCourtOutOfScope       = apperror.Forbidden("court belongs to a branch you do not run")
	ErrInvalidTransition     = apperror.Validation("booking cannot move to the requested status")
	ErrInvalidStatus         = apperror.Validation("unknown booking status")
	ErrScheduleAlreadyBooked = apperror.Conflict("schedule already booked")
)

// CourtLookup resolves courts and their owners and serialises bookings per
// court.
type CourtLookup interface {
	GetCourtByID(ctx context.Context, id int) (*branch.Court, error)
	LockCourt(ctx context.Context, id int) error
	ManagerOfBranch(ctx context.Context, branchID int) (int, error)
}

type AccountLookup interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type Notifier interface {
	SendBookingCreated(ctx context.Context, to, name string, b email.BookingMail) error
	SendBookingCancelled(ctx context.Context, to, name string, bookingID int) error
}

type Service interface {
	CreateBooking(ctx context.Context, in CreateBookingInput, loginUserID int) (*CreateBookingResult, error)
	UpdateTotalHours(ctx context.Context, bookingID int, duration float64, who auth.Identity) (*Booking, error)
	GetBookingByCustomer(ctx context.Context, customerID int) ([]BookingWithCourt, error)
	GetBooking(ctx context.Context, id int, who auth.Identity) (*Booking, error)
	ListSchedules(ctx context.Context, bookingID int, who auth.Identity) ([]schedule.Schedule, error)
	ConfirmAfterPayment(ctx context.Context, bookingID int, who auth.Identity) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID int) (*Booking, error)
	ListByCourt(ctx context.Context, courtID int, who auth.Identity) ([]Booking, error)
	ListByStatus(ctx context.Context, status string, who auth.Identity) ([]Booking, error)
}

type service struct {
	repo      Repository
	schedules schedule.Repository
	courts    CourtLookup
	accounts  AccountLookup
	tx        db.Transactor
	notifier  Notifier
	events    events.Publisher
}

func NewService(
	repo Repository,
	schedules schedule.Repository,
	courts CourtLookup,
	accounts AccountLookup,
	tx db.Transactor,
	notifier Notifier,
	publisher events.Publisher,
) Service {
	return &service{
		repo:      repo,
		schedules: schedules,
		courts:    courts,
		accounts:  accounts,
		tx:        tx,
		notifier:  notifier,
		events:    publisher,
	}
}

// CreateBooking books a court for the login user. The conflict check and the
// inserts run in one transaction that holds the court row lock, so two
// requests for the same court cannot both pass the check.
func (s *service) CreateBooking(ctx context.Context, in CreateBookingInput, loginUserID int) (*CreateBookingResult, error) {
	bk, sc := in.Booking, in.Schedule

	dates, err := occurrences(bk.Type, clock.DateOnly(bk.StartDate), clock.DateOnly(bk.EndDate), sc)
	if err != nil {
		return nil, err
	}

	court, err := s.courts.GetCourtByID(ctx, bk.CourtID)
	if err != nil {
		return nil, err
	}

	var result CreateBookingResult
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.courts.LockCourt(ctx, court.ID); err != nil {
			return err
		}

		if len(dates) > 0 {
			taken, err := s.schedules.FindOverlapping(ctx, court.ID, dates, sc.Slots)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				metrics.RecordBookingConflict()
				return ErrScheduleAlreadyBooked
			}
		}

		created, err := s.repo.CreateBooking(ctx, &Booking{
			Type:          bk.Type,
			PaymentType:   bk.PaymentType,
			PaymentMethod: bk.PaymentMethod,
			TotalPrice:    bk.TotalPrice,
			TotalHour:     bk.TotalHour,
			StartDate:     clock.DateOnly(bk.StartDate),
			EndDate:       clock.DateOnly(bk.EndDate),
			CourtID:       court.ID,
			CustomerID:    loginUserID,
			Status:        StatusPending,
		})
		if err != nil {
			return err
		}
		result.Booking = created
		result.Schedules = []schedule.Schedule{}

		if len(dates) == 0 {
			return nil
		}

		entries := make([]schedule.Schedule, 0, len(dates))
		for _, d := range dates {
			entries = append(entries, schedule.Schedule{
				Type:      schedule.TypeBooking,
				Slots:     sc.Slots,
				StartTime: sc.StartTime,
				EndTime:   sc.EndTime,
				Date:      d,
				BookingID: &created.ID,
				CourtID:   court.ID,
				Status:    schedule.StatusAvailable,
			})
		}
		if err := s.schedules.CreateBatch(ctx, entries); err != nil {
			return err
		}

		result.Schedules, err = s.schedules.ListByBooking(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(bk.Type, len(dates))
	logger.Info("booking created",
		"booking_id", result.Booking.ID,
		"court_id", court.ID,
		"type", bk.Type,
		"schedules", len(dates),
	)

	events.Emit(ctx, s.events, events.KeyBookingCreated, events.BookingCreated{
		BookingID:  result.Booking.ID,
		CourtID:    court.ID,
		CustomerID: loginUserID,
		Type:       bk.Type,
		Slots:      sc.Slots,
		Dates:      dates,
	})
	s.notifyCreated(ctx, loginUserID, court, result.Booking, sc.Slots, dates)

	return &result, nil
}

// occurrences lists the calendar days a booking occupies. FLEXIBLE bookings
// occupy none until they are scheduled.
func occurrences(bookingType string, start, end time.Time, sc ScheduleInput) ([]time.Time, error) {
	switch bookingType {
	case TypeSingle, TypePermanent, TypeFlexible:
	default:
		return nil, ErrInvalidBookingType
	}

	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	if bookingType == TypeFlexible {
		return nil, nil
	}

	if len(sc.Slots) == 0 {
		return nil, ErrSlotsRequired
	}
	if sc.Date.IsZero() {
		return nil, ErrScheduleDateRequired
	}

	day := clock.DateOnly(sc.Date)
	if bookingType == TypeSingle {
		return []time.Time{day}, nil
	}

	dates := weekdaysBetween(start, end, day.Weekday())
	if len(dates) == 0 {
		return nil, ErrNoOccurrence
	}
	return dates, nil
}

// weekdaysBetween returns every day in [start, end] falling on wd.
func weekdaysBetween(start, end time.Time, wd time.Weekday) []time.Time {
	offset := (int(wd) - int(start.Weekday()) + 7) % 7

	var days []time.Time
	for d := start.AddDate(0, 0, offset); !d.After(end); d = d.AddDate(0, 0, 7) {
		days = append(days, d)
	}
	return days
}

func (s *service) notifyCreated(ctx context.Context, customerID int, court *branch.Court, b *Booking, slots []string, dates []time.Time) {
	customer, err := s.accounts.GetByID(ctx, customerID)
	if err != nil {
		logger.Error("booking mail skipped", "booking_id", b.ID, "error", err.Error())
		return
	}

	err = s.notifier.SendBookingCreated(ctx, customer.Email, customer.Name, email.BookingMail{
		BookingID: b.ID,
		CourtName: court.Name,
		Type:      b.Type,
		Slots:     slots,
		Dates:     dates,
	})
	if err != nil {
		logger.Error("booking mail not queued", "booking_id", b.ID, "error", err.Error())
	}
}

// UpdateTotalHours spends duration hours of a booking. The remainder never
// drops below zero.
func (s *service) UpdateTotalHours(ctx context.Context, bookingID int, duration float64, who auth.Identity) (*Booking, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	current, err := s.getByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCourt(ctx, current.CourtID, who); err != nil {
		return nil, err
	}

	b, err := s.repo.DecrementHours(ctx, bookingID, duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientHours
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBookingByCustomer(ctx context.Context, customerID int) ([]BookingWithCourt, error) {
	account, err := s.accounts.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if account.Role != auth.RoleCustomer {
		return nil, ErrNotCustomer
	}

	return s.repo.ListByCustomerWithCourt(ctx, customerID)
}

// GetBooking returns a booking to its customer or to desk accounts of the
// court's branch.
func (s *service) GetBooking(ctx context.Context, id int, who auth.Identity) (*Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBooking(ctx, b, who); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListSchedules(ctx context.Context, bookingID int, who auth.Identity) ([]schedule.Schedule, error) {
	if _, err := s.GetBooking(ctx, bookingID, who); err != nil {
		return nil, err
	}
	return s.schedules.ListByBooking(ctx, bookingID)
}

func (s *service) authorizeBooking(ctx context.Context, b *Booking, who auth.Identity) error {
	if who.Role == auth.RoleCustomer {
		if b.CustomerID != who.UserID {
			return ErrNotYourBooking
		}
		return nil
	}
	return s.authorizeCourt(ctx, b.CourtID, who)
}

// authorizeCourt lets admins act on any court, managers on courts of the
// branches they own and staff on courts of their own branch.
func (s *service) authorizeCourt(ctx context.Context, courtID int, who auth.Identity) error {
	if who.Role == auth.RoleAdmin {
		return nil
	}

	court, err := s.courts.GetCourtByID(ctx, courtID)
	if err != nil {
		return err
	}

	switch who.Role {
	case auth.RoleStaff:
		if who.BranchID != nil && *who.BranchID == court.BranchID {
			return nil
		}
	case auth.RoleManager:
		owner, err := s.courts.ManagerOfBranch(ctx, court.BranchID)
		if err != nil {
			return err
		}
		if owner == who.UserID {
			return nil
		}
	}

	logger.Warn("court access denied", "court_id", courtID, "user_id", who.UserID, "role", who.Role)
	return ErrCourtOutOfScope
}

func (s *service) getByID(ctx context.Context, id int) (*Booking, error) {
	b, err := s.repo.GetBookingByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ConfirmAfterPayment marks a pending booking as paid.
func (s *service) ConfirmAfterPayment(ctx context.Context, bookingID int, who auth.Identity) (*Booking, error) {
	current, err := s.getByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCourt(ctx, current.CourtID, who); err != nil {
		return nil, err
	}

	b, err := s.repo.TransitionStatus(ctx, bookingID, []string{StatusPending}, StatusConfirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	logger.Info("booking confirmed", "booking_id", bookingID)
	events.Emit(ctx, s.events, events.KeyBookingConfirmed, events.BookingStatusChanged{BookingID: b.ID, Status: b.Status})
	return b, nil
}

// CancelBooking cancels the booking and releases its schedule entries.
func (s *service) CancelBooking(ctx context.Context, bookingID, userID int) (*Booking, error) {
	current, err := s.getByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.CustomerID != userID {
		return nil, ErrNotOwner
	}

	var cancelled *Booking
	var released int64
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.TransitionStatus(ctx, bookingID, []string{StatusPending, StatusConfirmed}, StatusCancelled)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidTransition
		}
		if err != nil {
			return err
		}
		cancelled = b

		released, err = s.schedules.CancelByBooking(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()
	logger.Info("booking cancelled", "booking_id", bookingID, "released_schedules", released)
	events.Emit(ctx, s.events, events.KeyBookingCancelled, events.BookingStatusChanged{BookingID: bookingID, Status: StatusCancelled})

	if customer, err := s.accounts.GetByID(ctx, userID); err == nil {
		if err := s.notifier.SendBookingCancelled(ctx, customer.Email, customer.Name, bookingID); err != nil {
			logger.Error("cancellation mail not queued", "booking_id", bookingID, "error", err.Error())
		}
	}

	return cancelled, nil
}

func (s *service) ListByCourt(ctx context.Context, courtID int, who auth.Identity) ([]Booking, error) {
	if _, err := s.courts.GetCourtByID(ctx, courtID); err != nil {
		return nil, err
	}
	if err := s.authorizeCourt(ctx, courtID, who); err != nil {
		return nil, err
	}
	return s.repo.ListByCourt(ctx, courtID)
}

// ListByStatus lists bookings in status across the branches the caller runs.
func (s *service) ListByStatus(ctx context.Context, status string, who auth.Identity) ([]Booking, error) {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	var scope Scope
	switch who.Role {
	case auth.RoleAdmin:
	case auth.RoleManager:
		scope.ManagerID = &who.UserID
	case auth.RoleStaff:
		if who.BranchID == nil {
			return nil, ErrCourtOutOfScope
		}
		scope.BranchID = who.BranchID
	default:
		return nil, ErrCourtOutOfScope
	}
	return s.repo.ListByStatus(ctx, status, scope)
}
