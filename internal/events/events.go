package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linhlinh38/Bookminton/internal/logger"
)

// Routing keys on the events exchange.
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingConfirmed = "booking.confirmed"
	KeyBookingCancelled = "booking.cancelled"
	KeyPackagePurchased = "package.purchased"
)

type BookingCreated struct {
	BookingID  int         `json:"booking_id"`
	CourtID    int         `json:"court_id"`
	CustomerID int         `json:"customer_id"`
	Type       string      `json:"type"`
	Slots      []string    `json:"slots,omitempty"`
	Dates      []time.Time `json:"dates,omitempty"`
}

type BookingStatusChanged struct {
	BookingID int    `json:"booking_id"`
	Status    string `json:"status"`
}

type PackagePurchased struct {
	PurchaseID  int             `json:"purchase_id"`
	ManagerID   int             `json:"manager_id"`
	PackageID   int             `json:"package_id"`
	PackageType string          `json:"package_type"`
	Status      string          `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TotalCourt  int             `json:"total_court"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
}

// Emit publishes and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, key string, v any) {
	if err := p.PublishJSON(ctx, key, v); err != nil {
		logger.Error("event publish failed", "key", key, "error", err.Error())
	}
}
