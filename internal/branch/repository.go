package branch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/linhlinh38/Bookminton/internal/db"
)

const (
	branchColumns = `id, manager_id, name, address, status, created_at`
	courtColumns  = `id, branch_id, name, status, price_per_hour, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBranch(ctx context.Context, b *Branch) (*Branch, error) {
	query := `
		INSERT INTO branches (manager_id, name, address, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + branchColumns

	var created Branch
	if err := db.Conn(ctx, r.db).GetContext(ctx, &created, query, b.ManagerID, b.Name, b.Address, b.Status); err != nil {
		return nil, fmt.Errorf("insert branch: %w", err)
	}
	return &created, nil
}

func (r *repository) GetBranchByID(ctx context.Context, id int) (*Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`

	var b Branch
	if err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBranches returns every branch when status is empty.
func (r *repository) ListBranches(ctx context.Context, status string) ([]Branch, error) {
	query := `
		SELECT ` + branchColumns + `
		FROM branches
		WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC
	`

	branches := []Branch{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &branches, query, status); err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *repository) UpdateBranchStatus(ctx context.Context, id int, status string) (*Branch, error) {
	query := `UPDATE branches SET status = $1 WHERE id = $2 RETURNING ` + branchColumns

	var b Branch
	if err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, status, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ManagerOfBranch(ctx context.Context, branchID int) (int, error) {
	var managerID int
	err := db.Conn(ctx, r.db).GetContext(ctx, &managerID, `SELECT manager_id FROM branches WHERE id = $1`, branchID)
	if err != nil {
		return 0, err
	}
	return managerID, nil
}

func (r *repository) CreateCourt(ctx context.Context, c *Court) (*Court, error) {
	query := `
		INSERT INTO courts (branch_id, name, status, price_per_hour)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + courtColumns

	var created Court
	if err := db.Conn(ctx, r.db).GetContext(ctx, &created, query, c.BranchID, c.Name, c.Status, c.PricePerHour); err != nil {
		return nil, fmt.Errorf("insert court: %w", err)
	}
	return &created, nil
}

func (r *repository) GetCourtByID(ctx context.Context, id int) (*Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1`

	var c Court
	if err := db.Conn(ctx, r.db).GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// LockCourt takes a row lock on the court for the rest of the transaction
// carried by ctx. Bookings of the same court queue up behind it.
func (r *repository) LockCourt(ctx context.Context, id int) error {
	var locked int
	err := db.Conn(ctx, r.db).GetContext(ctx, &locked, `SELECT id FROM courts WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("lock court %d: %w", id, err)
	}
	return nil
}

func (r *repository) ListCourts(ctx context.Context, branchID int) ([]Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE branch_id = $1 ORDER BY id`

	courts := []Court{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &courts, query, branchID); err != nil {
		return nil, err
	}
	return courts, nil
}

func (r *repository) CountCourtsByManager(ctx context.Context, managerID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM courts c
		JOIN branches b ON b.id = c.branch_id
		WHERE b.manager_id = $1 AND c.status = $2
	`

	var count int
	if err := db.Conn(ctx, r.db).GetContext(ctx, &count, query, managerID, CourtActive); err != nil {
		return 0, err
	}
	return count, nil
}
