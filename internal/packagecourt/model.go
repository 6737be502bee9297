package packagecourt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeStandard = "STANDARD"
	TypeCustom   = "CUSTOM"
)

const (
	PurchasePending = "PENDING"
	PurchaseActive  = "ACTIVE"
	PurchaseExpired = "EXPIRED"
)

// PackageCourt is a plan a manager can buy. STANDARD packages carry a flat
// TotalPrice and MaxCourt. CUSTOM packages are priced per court.
type PackageCourt struct {
	ID             int                 `db:"id" json:"id"`
	Name           string              `db:"name" json:"name"`
	Type           string              `db:"type" json:"type"`
	TotalPrice     decimal.NullDecimal `db:"total_price" json:"total_price"`
	PriceEachCourt decimal.NullDecimal `db:"price_each_court" json:"price_each_court"`
	MaxCourt       *int                `db:"max_court" json:"max_court,omitempty"`
	Duration       *int                `db:"duration" json:"duration,omitempty"`
	Description    string              `db:"description" json:"description"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}

type PackagePurchase struct {
	ID             int                 `db:"id" json:"id"`
	TotalPrice     decimal.Decimal     `db:"total_price" json:"total_price"`
	TotalCourt     int                 `db:"total_court" json:"total_court"`
	Duration       int                 `db:"duration" json:"duration"`
	PriceEachCourt decimal.NullDecimal `db:"price_each_court" json:"price_each_court"`
	StartDate      time.Time           `db:"start_date" json:"start_date"`
	EndDate        time.Time           `db:"end_date" json:"end_date"`
	ManagerID      int                 `db:"manager_id" json:"manager_id"`
	PackageCourtID int                 `db:"package_court_id" json:"package_court_id"`
	Status         string              `db:"status" json:"status"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}

type CreatePackageRequest struct {
	Name           string           `json:"name" validate:"required"`
	Type           string           `json:"type" validate:"required"`
	TotalPrice     *decimal.Decimal `json:"total_price"`
	PriceEachCourt *decimal.Decimal `json:"price_each_court"`
	MaxCourt       *int             `json:"max_court" validate:"omitempty,gt=0"`
	Duration       *int             `json:"duration" validate:"omitempty,gt=0"`
	Description    string           `json:"description"`
}

type BuyPackageRequest struct {
	PackageID  int `json:"package_id" validate:"required,gt=0"`
	TotalCourt int `json:"total_court" validate:"gte=0"`
	// PaymentID references the settled payment. buy-full generates one when absent.
	PaymentID string `json:"payment_id" validate:"omitempty,uuid"`
}

type BuyPackageInput struct {
	PackageID  int
	ManagerID  int
	TotalCourt int
	PaymentID  *uuid.UUID
}
