package branch

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linhlinh38/Bookminton/internal/apperror"
	"github.com/linhlinh38/Bookminton/internal/clock"
	"github.com/linhlinh38/Bookminton/internal/logger"
	"github.com/linhlinh38/Bookminton/internal/user"
)

var (
	ErrBranchNotFound      = apperror.NotFound("branch not found")
	ErrCourtNotFound       = apperror.NotFound("court not found")
	ErrRequestHandled      = apperror.Validation("branch request has already been handled")
	ErrBranchNotActive     = apperror.Validation("branch is not active")
	ErrBranchNotOwned      = apperror.Validation("branch does not belong to this manager")
	ErrNoActivePackage     = apperror.Validation("manager has no active court package")
	ErrCourtQuotaReached   = apperror.Validation("court quota of the current package is reached")
	ErrInvalidPrice        = apperror.Validation("price per hour must not be negative")
	ErrInvalidBranchStatus = apperror.Validation("unknown branch status")
)

// ManagerLookup resolves manager accounts.
type ManagerLookup interface {
	GetManager(ctx context.Context, managerID int) (*user.User, error)
}

type Service interface {
	RequestCreateBranch(ctx context.Context, managerID int, req CreateBranchRequest) (*Branch, error)
	HandleRequest(ctx context.Context, branchID int, approve bool) (*Branch, error)
	ListBranches(ctx context.Context, status string) ([]Branch, error)
	GetBranch(ctx context.Context, id int) (*Branch, error)
	ManagerOfBranch(ctx context.Context, branchID int) (int, error)

	CreateCourt(ctx context.Context, managerID, branchID int, req CreateCourtRequest) (*Court, error)
	GetCourtByID(ctx context.Context, id int) (*Court, error)
	LockCourt(ctx context.Context, id int) error
	ListCourts(ctx context.Context, branchID int) ([]Court, error)
}

type service struct {
	repo     Repository
	managers ManagerLookup
	clock    clock.Clock
}

func NewService(repo Repository, managers ManagerLookup, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		managers: managers,
		clock:    clk,
	}
}

func (s *service) RequestCreateBranch(ctx context.Context, managerID int, req CreateBranchRequest) (*Branch, error) {
	if _, err := s.managers.GetManager(ctx, managerID); err != nil {
		return nil, err
	}

	b, err := s.repo.CreateBranch(ctx, &Branch{
		ManagerID: managerID,
		Name:      req.Name,
		Address:   req.Address,
		Status:    StatusPending,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("branch requested", "branch_id", b.ID, "manager_id", managerID)
	return b, nil
}

// HandleRequest approves or denies a pending branch.
func (s *service) HandleRequest(ctx context.Context, branchID int, approve bool) (*Branch, error) {
	b, err := s.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrRequestHandled
	}

	status := StatusDenied
	if approve {
		status = StatusActive
	}

	updated, err := s.repo.UpdateBranchStatus(ctx, branchID, status)
	if err != nil {
		return nil, err
	}

	logger.Info("branch request handled", "branch_id", branchID, "status", status)
	return updated, nil
}

func (s *service) ListBranches(ctx context.Context, status string) ([]Branch, error) {
	switch status {
	case "", StatusPending, StatusActive, StatusDenied, StatusInactive:
	default:
		return nil, ErrInvalidBranchStatus
	}
	return s.repo.ListBranches(ctx, status)
}

func (s *service) GetBranch(ctx context.Context, id int) (*Branch, error) {
	b, err := s.repo.GetBranchByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateCourt adds a court to an active branch of the manager as long as the
// manager's package still has room for it.
func (s *service) CreateCourt(ctx context.Context, managerID, branchID int, req CreateCourtRequest) (*Court, error) {
	if req.PricePerHour.IsNegative() {
		return nil, ErrInvalidPrice
	}

	b, err := s.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b.ManagerID != managerID {
		return nil, ErrBranchNotOwned
	}
	if b.Status != StatusActive {
		return nil, ErrBranchNotActive
	}

	manager, err := s.managers.GetManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if !manager.HasActivePackage(s.clock.Now()) || manager.MaxCourt == nil {
		return nil, ErrNoActivePackage
	}

	count, err := s.repo.CountCourtsByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if count >= *manager.MaxCourt {
		return nil, ErrCourtQuotaReached
	}

	court, err := s.repo.CreateCourt(ctx, &Court{
		BranchID:     branchID,
		Name:         req.Name,
		Status:       CourtActive,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("court created", "court_id", court.ID, "branch_id", branchID)
	return court, nil
}

func (s *service) GetCourtByID(ctx context.Context, id int) (*Court, error) {
	c, err := s.repo.GetCourtByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ManagerOfBranch(ctx context.Context, branchID int) (int, error) {
	managerID, err := s.repo.ManagerOfBranch(ctx, branchID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBranchNotFound
	}
	return managerID, err
}

func (s *service) LockCourt(ctx context.Context, id int) error {
	err := s.repo.LockCourt(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCourtNotFound
	}
	return err
}

func (s *service) ListCourts(ctx context.Context, branchID int) ([]Court, error) {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return s.repo.ListCourts(ctx, branchID)
}
