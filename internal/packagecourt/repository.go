package packagecourt

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/linhlinh38/Bookminton/internal/db"
)

const packageColumns = `id, name, type, total_price, price_each_court, max_court, duration, description, created_at`

const purchaseColumns = `id, total_price, total_court, duration, price_each_court, start_date, end_date, manager_id, package_court_id, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePackage(ctx context.Context, p *PackageCourt) (*PackageCourt, error) {
	query := `
		INSERT INTO package_courts (name, type, total_price, price_each_court, max_court, duration, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + packageColumns

	var created PackageCourt
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		p.Name, p.Type, p.TotalPrice, p.PriceEachCourt, p.MaxCourt, p.Duration, p.Description)
	if err != nil {
		return nil, fmt.Errorf("insert package: %w", err)
	}

	return &created, nil
}

func (r *repository) GetPackageByID(ctx context.Context, id int) (*PackageCourt, error) {
	query := `SELECT ` + packageColumns + ` FROM package_courts WHERE id = $1`

	var p PackageCourt
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListPackages(ctx context.Context) ([]PackageCourt, error) {
	query := `SELECT ` + packageColumns + ` FROM package_courts ORDER BY id`

	out := []PackageCourt{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) CreatePurchase(ctx context.Context, p *PackagePurchase) (*PackagePurchase, error) {
	query := `
		INSERT INTO package_purchases (total_price, total_court, duration, price_each_court, start_date, end_date, manager_id, package_court_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + purchaseColumns

	var created PackagePurchase
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		p.TotalPrice, p.TotalCourt, p.Duration, p.PriceEachCourt,
		p.StartDate, p.EndDate, p.ManagerID, p.PackageCourtID, p.Status)
	if err != nil {
		return nil, fmt.Errorf("insert package purchase: %w", err)
	}

	return &created, nil
}

func (r *repository) ListPurchasesByManager(ctx context.Context, managerID int) ([]PackagePurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM package_purchases WHERE manager_id = $1 ORDER BY start_date DESC`

	out := []PackagePurchase{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &out, query, managerID); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) GetPurchaseByID(ctx context.Context, id int) (*PackagePurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM package_purchases WHERE id = $1`

	var p PackagePurchase
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) ConfirmPurchase(ctx context.Context, id int) (*PackagePurchase, error) {
	query := `
		UPDATE package_purchases
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING ` + purchaseColumns

	var p PackagePurchase
	if err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, PurchaseActive, id, PurchasePending); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) ExpirePurchases(ctx context.Context, today time.Time) (int64, error) {
	query := `UPDATE package_purchases SET status = $1 WHERE status = ANY($2) AND end_date < $3`

	live := pq.StringArray{PurchasePending, PurchaseActive}
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, PurchaseExpired, live, today)
	if err != nil {
		return 0, fmt.Errorf("expire purchases: %w", err)
	}

	return res.RowsAffected()
}
