package booking

import "context"

type Repository interface {
	CreateBooking(ctx context.Context, b *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)

	// DecrementHours subtracts hours only while the remainder stays at or
	// above zero. It returns sql.ErrNoRows when no row qualified.
	DecrementHours(ctx context.Context, id int, hours float64) (*Booking, error)

	// TransitionStatus moves the booking to status `to` only from one of
	// `from`. It returns sql.ErrNoRows when no row qualified.
	TransitionStatus(ctx context.Context, id int, from []string, to string) (*Booking, error)

	ListByCustomerWithCourt(ctx context.Context, customerID int) ([]BookingWithCourt, error)
	ListByCourt(ctx context.Context, courtID int) ([]Booking, error)
	ListByStatus(ctx context.Context, status string, scope Scope) ([]Booking, error)
}

// Scope narrows a listing to the branches of one manager or to one branch.
// Nil fields do not filter.
type Scope struct {
	ManagerID *int
	BranchID  *int
}
