package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/linhlinh38/Bookminton/internal/apperror"
	"github.com/linhlinh38/Bookminton/internal/schedule"
)

const (
	TypeSingle    = "SINGLE_SCHEDULE"
	TypePermanent = "PERMANENT_SCHEDULE"
	TypeFlexible  = "FLEXIBLE_SCHEDULE"
)

const (
	PaymentFull = "FULL"
	PaymentHaft = "HAFT"
)

const (
	MethodCash          = "CASH"
	MethodLinkedAccount = "LINKED_ACCOUNT"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

type Booking struct {
	ID            int             `db:"id" json:"id"`
	Type          string          `db:"type" json:"type"`
	PaymentType   string          `db:"payment_type" json:"payment_type"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	TotalPrice    decimal.Decimal `db:"total_price" json:"total_price"`
	TotalHour     float64         `db:"total_hour" json:"total_hour"`
	StartDate     time.Time       `db:"start_date" json:"start_date"`
	EndDate       time.Time       `db:"end_date" json:"end_date"`
	CourtID       int             `db:"court_id" json:"court_id"`
	CustomerID    int             `db:"customer_id" json:"customer_id"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// BookingWithCourt is a booking joined with the court and branch it is held at.
type BookingWithCourt struct {
	Booking
	CourtName     string `db:"court_name" json:"court_name"`
	BranchID      int    `db:"branch_id" json:"branch_id"`
	BranchName    string `db:"branch_name" json:"branch_name"`
	BranchAddress string `db:"branch_address" json:"branch_address"`
}

// CreateBookingInput is the already parsed form of CreateBookingRequest.
type CreateBookingInput struct {
	Booking  BookingInput
	Schedule ScheduleInput
}

type BookingInput struct {
	Type          string
	PaymentType   string
	PaymentMethod string
	TotalPrice    decimal.Decimal
	TotalHour     float64
	StartDate     time.Time
	EndDate       time.Time
	CourtID       int
}

type ScheduleInput struct {
	Slots     []string
	StartTime string
	EndTime   string
	Date      time.Time
}

type CreateBookingResult struct {
	Booking   *Booking            `json:"booking"`
	Schedules []schedule.Schedule `json:"schedules"`
}

type CreateBookingRequest struct {
	Booking  BookingRequest  `json:"booking"`
	Schedule ScheduleRequest `json:"schedule"`
}

type BookingRequest struct {
	Type          string          `json:"type" validate:"required,oneof=SINGLE_SCHEDULE PERMANENT_SCHEDULE FLEXIBLE_SCHEDULE"`
	PaymentType   string          `json:"payment_type" validate:"required,oneof=FULL HAFT"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH LINKED_ACCOUNT"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	TotalHour     float64         `json:"total_hour" validate:"gte=0"`
	StartDate     string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string          `json:"end_date" validate:"required,datetime=2006-01-02"`
	CourtID       int             `json:"court_id" validate:"required,gt=0"`
}

type ScheduleRequest struct {
	Slots     []string `json:"slots" validate:"dive,required"`
	StartTime string   `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   string   `json:"end_time" validate:"omitempty,datetime=15:04"`
	Date      string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateHoursRequest struct {
	Duration float64 `json:"duration" validate:"gt=0"`
}

var errBadDate = apperror.Validation("dates must be formatted as YYYY-MM-DD")

// ToInput parses the request dates. Format errors were already rejected by
// validation, so a failure here means the request skipped it.
func (r CreateBookingRequest) ToInput() (CreateBookingInput, error) {
	start, err := time.Parse(schedule.DateLayout, r.Booking.StartDate)
	if err != nil {
		return CreateBookingInput{}, errBadDate
	}
	end, err := time.Parse(schedule.DateLayout, r.Booking.EndDate)
	if err != nil {
		return CreateBookingInput{}, errBadDate
	}

	var day time.Time
	if r.Schedule.Date != "" {
		if day, err = time.Parse(schedule.DateLayout, r.Schedule.Date); err != nil {
			return CreateBookingInput{}, errBadDate
		}
	}

	return CreateBookingInput{
		Booking: BookingInput{
			Type:          r.Booking.Type,
			PaymentType:   r.Booking.PaymentType,
			PaymentMethod: r.Booking.PaymentMethod,
			TotalPrice:    r.Booking.TotalPrice,
			TotalHour:     r.Booking.TotalHour,
			StartDate:     start,
			EndDate:       end,
			CourtID:       r.Booking.CourtID,
		},
		Schedule: ScheduleInput{
			Slots:     r.Schedule.Slots,
			StartTime: r.Schedule.StartTime,
			EndTime:   r.Schedule.EndTime,
			Date:      day,
		},
	}, nil
}
