package branch

import "context"

type Repository interface {
	CreateBranch(ctx context.Context, b *Branch) (*Branch, error)
	GetBranchByID(ctx context.Context, id int) (*Branch, error)
	ListBranches(ctx context.Context, status string) ([]Branch, error)
	UpdateBranchStatus(ctx context.Context, id int, status string) (*Branch, error)
	ManagerOfBranch(ctx context.Context, branchID int) (int, error)

	CreateCourt(ctx context.Context, c *Court) (*Court, error)
	GetCourtByID(ctx context.Context, id int) (*Court, error)
	LockCourt(ctx context.Context, id int) error
	ListCourts(ctx context.Context, branchID int) ([]Court, error)
	CountCourtsByManager(ctx context.Context, managerID int) (int, error)
}
