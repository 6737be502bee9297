package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/linhlinh38/Bookminton/internal/db"
)

const scheduleColumns = `id, type, slots, start_time, end_time, date, booking_id, court_id, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOverlapping(ctx context.Context, courtID int, dates []time.Time, slots []string) ([]Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE court_id = $1
		  AND status = $2
		  AND date = ANY($3::date[])
		  AND slots && $4
		ORDER BY date
	`

	days := make(pq.StringArray, 0, len(dates))
	for _, d := range dates {
		days = append(days, d.Format(DateLayout))
	}

	found := []Schedule{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &found, query, courtID, StatusAvailable, days, pq.StringArray(slots))
	if err != nil {
		return nil, fmt.Errorf("find overlapping schedules: %w", err)
	}
	return found, nil
}

// CreateBatch writes all entries with a single multi-row INSERT, so either
// every entry lands or none does.
func (r *repository) CreateBatch(ctx context.Context, schedules []Schedule) error {
	if len(schedules) == 0 {
		return nil
	}

	query := `
		INSERT INTO schedules (type, slots, start_time, end_time, date, booking_id, court_id, status)
		VALUES (:type, :slots, :start_time, :end_time, :date, :booking_id, :court_id, :status)
	`

	if _, err := db.Conn(ctx, r.db).NamedExecContext(ctx, query, schedules); err != nil {
		return fmt.Errorf("insert %d schedules: %w", len(schedules), err)
	}
	return nil
}

func (r *repository) CancelByBooking(ctx context.Context, bookingID int) (int64, error) {
	query := `UPDATE schedules SET status = $1 WHERE booking_id = $2 AND status = $3`

	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, StatusCancelled, bookingID, StatusAvailable)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) ListByCourtAndDate(ctx context.Context, courtID int, date time.Time) ([]Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE court_id = $1 AND date = $2::date AND status <> $3
		ORDER BY start_time
	`

	out := []Schedule{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, courtID, date.Format(DateLayout), StatusCancelled)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID int) ([]Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE booking_id = $1 ORDER BY date`

	out := []Schedule{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, bookingID); err != nil {
		return nil, err
	}
	return out, nil
}
