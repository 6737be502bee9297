package schedule

import (
	"time"

	"github.com/lib/pq"
)

const (
	TypeBooking    = "BOOKING"
	TypeTournament = "TOURNAMENT"
)

// An AVAILABLE entry holds its slots. CANCELLED entries free them again.
const (
	StatusAvailable = "AVAILABLE"
	StatusBooked    = "BOOKED"
	StatusCancelled = "CANCELLED"
)

// DateLayout is the wire and SQL form of Schedule.Date.
const DateLayout = "2006-01-02"

type Schedule struct {
	ID        int            `db:"id" json:"id"`
	Type      string         `db:"type" json:"type"`
	Slots     pq.StringArray `db:"slots" json:"slots"`
	StartTime string         `db:"start_time" json:"start_time"`
	EndTime   string         `db:"end_time" json:"end_time"`
	Date      time.Time      `db:"date" json:"date"`
	BookingID *int           `db:"booking_id" json:"booking_id,omitempty"`
	CourtID   int            `db:"court_id" json:"court_id"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
