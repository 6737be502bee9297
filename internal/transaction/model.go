package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypePackage = "PACKAGE"
	TypeBooking = "BOOKING"
)

// Transaction moves Amount from one account to another. PaymentID is the
// reference of the external payment when there was one.
type Transaction struct {
	ID            int             `db:"id" json:"id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	FromID        int             `db:"from_id" json:"from_id"`
	ToID          int             `db:"to_id" json:"to_id"`
	Content       string          `db:"content" json:"content"`
	Type          string          `db:"type" json:"type"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	PaymentID     *uuid.UUID      `db:"payment_id" json:"payment_id,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
