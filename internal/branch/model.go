package branch

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusActive   = "ACTIVE"
	StatusDenied   = "DENIED"
	StatusInactive = "INACTIVE"
)

const (
	CourtActive   = "ACTIVE"
	CourtInactive = "INACTIVE"
)

type Branch struct {
	ID        int       `db:"id" json:"id"`
	ManagerID int       `db:"manager_id" json:"manager_id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Court struct {
	ID           int             `db:"id" json:"id"`
	BranchID     int             `db:"branch_id" json:"branch_id"`
	Name         string          `db:"name" json:"name"`
	Status       string          `db:"status" json:"status"`
	PricePerHour decimal.Decimal `db:"price_per_hour" json:"price_per_hour"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type HandleRequestRequest struct {
	BranchID int  `json:"branch_id" validate:"required,gt=0"`
	Approve  bool `json:"approve"`
}

type CreateCourtRequest struct {
	Name         string          `json:"name" validate:"required"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
}
