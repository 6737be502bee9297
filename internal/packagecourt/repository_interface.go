package packagecourt

import (
	"context"
	"time"
)

type Repository interface {
	CreatePackage(ctx context.Context, p *PackageCourt) (*PackageCourt, error)
	GetPackageByID(ctx context.Context, id int) (*PackageCourt, error)
	ListPackages(ctx context.Context) ([]PackageCourt, error)

	CreatePurchase(ctx context.Context, p *PackagePurchase) (*PackagePurchase, error)
	ListPurchasesByManager(ctx context.Context, managerID int) ([]PackagePurchase, error)
	GetPurchaseByID(ctx context.Context, id int) (*PackagePurchase, error)

	// ConfirmPurchase moves a PENDING purchase to ACTIVE. It returns
	// sql.ErrNoRows when the purchase is missing or not pending.
	ConfirmPurchase(ctx context.Context, id int) (*PackagePurchase, error)

	// ExpirePurchases marks PENDING and ACTIVE purchases that ended before
	// today as EXPIRED.
	ExpirePurchases(ctx context.Context, today time.Time) (int64, error)
}
