package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// GetManagerForUpdate locks the manager row until the surrounding
	// transaction ends.
	GetManagerForUpdate(ctx context.Context, id int) (*User, error)
	UpdateManagerPlan(ctx context.Context, id int, expiredDate time.Time, maxCourt int) error
}
