package user

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/linhlinh38/Bookminton/internal/auth"
	"github.com/linhlinh38/Bookminton/internal/db"
)

const userColumns = `id, name, email, password_hash, role, branch_id, manager_id, expired_date, max_court, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, branch_id, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	var created User
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.BranchID, u.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &u, query, email); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &u, query, id); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db), `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) GetManagerForUpdate(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2 FOR UPDATE`

	var u User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &u, query, id, auth.RoleManager); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) UpdateManagerPlan(ctx context.Context, id int, expiredDate time.Time, maxCourt int) error {
	query := `UPDATE users SET expired_date = $1, max_court = $2 WHERE id = $3`

	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, expiredDate, maxCourt, id)
	if err != nil {
		return fmt.Errorf("update manager plan: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
