package booking

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/linhlinh38/Bookminton/internal/db"
)

const bookingColumns = `id, type, payment_type, payment_method, total_price, total_hour, start_date, end_date, court_id, customer_id, status, created_at, updated_at`

const joinedBookingColumns = `b.id, b.type, b.payment_type, b.payment_method, b.total_price, b.total_hour,
			b.start_date, b.end_date, b.court_id, b.customer_id, b.status, b.created_at, b.updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (type, payment_type, payment_method, total_price, total_hour, start_date, end_date, court_id, customer_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + bookingColumns

	var created Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		b.Type, b.PaymentType, b.PaymentMethod, b.TotalPrice, b.TotalHour,
		b.StartDate, b.EndDate, b.CourtID, b.CustomerID, b.Status)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	return &created, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	if err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) DecrementHours(ctx context.Context, id int, hours float64) (*Booking, error) {
	query := `
		UPDATE bookings
		SET total_hour = total_hour - $1, updated_at = NOW()
		WHERE id = $2 AND total_hour >= $1
		RETURNING ` + bookingColumns

	var b Booking
	if err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, hours, id); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id int, from []string, to string) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)
		RETURNING ` + bookingColumns

	var b Booking
	if err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, to, id, pq.StringArray(from)); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListByCustomerWithCourt(ctx context.Context, customerID int) ([]BookingWithCourt, error) {
	query := `
		SELECT
			` + joinedBookingColumns + `,
			c.name AS court_name,
			br.id AS branch_id,
			br.name AS branch_name,
			br.address AS branch_address
		FROM bookings b
		JOIN courts c ON c.id = b.court_id
		JOIN branches br ON br.id = c.branch_id
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC
	`

	out := []BookingWithCourt{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, customerID); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) ListByCourt(ctx context.Context, courtID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE court_id = $1 ORDER BY start_date`

	out := []Booking{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, courtID); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) ListByStatus(ctx context.Context, status string, scope Scope) ([]Booking, error) {
	query := `
		SELECT ` + joinedBookingColumns + `
		FROM bookings b
		JOIN courts c ON c.id = b.court_id
		JOIN branches br ON br.id = c.branch_id
		WHERE b.status = $1
		  AND ($2::int IS NULL OR br.manager_id = $2)
		  AND ($3::int IS NULL OR c.branch_id = $3)
		ORDER BY b.created_at DESC
	`

	out := []Booking{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, status, scope.ManagerID, scope.BranchID); err != nil {
		return nil, err
	}

	return out, nil
}
