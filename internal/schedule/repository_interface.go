package schedule

import (
	"context"
	"time"
)

type Repository interface {
	// FindOverlapping returns AVAILABLE entries of the court on any of dates
	// that share a slot with slots.
	FindOverlapping(ctx context.Context, courtID int, dates []time.Time, slots []string) ([]Schedule, error)
	CreateBatch(ctx context.Context, schedules []Schedule) error
	CancelByBooking(ctx context.Context, bookingID int) (int64, error)
	ListByCourtAndDate(ctx context.Context, courtID int, date time.Time) ([]Schedule, error)
	ListByBooking(ctx context.Context, bookingID int) ([]Schedule, error)
}
