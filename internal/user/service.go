package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linhlinh38/Bookminton/internal/apperror"
	"github.com/linhlinh38/Bookminton/internal/auth"
	"github.com/linhlinh38/Bookminton/internal/logger"
)

var (
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrManagerNotFound    = apperror.NotFound("manager not found")
	ErrBranchNotFound     = apperror.NotFound("branch not found")
	ErrEmailExists        = apperror.Conflict("email already exists")
	ErrBranchNotOwned     = apperror.Validation("branch does not belong to this manager")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// BranchDirectory resolves the manager owning a branch.
type BranchDirectory interface {
	ManagerOfBranch(ctx context.Context, branchID int) (int, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	GetManager(ctx context.Context, managerID int) (*User, error)
	CreateStaff(ctx context.Context, managerID int, req CreateStaffRequest) (*User, error)
}

type service struct {
	repo     Repository
	branches BranchDirectory
	tokens   *auth.Tokens
}

func NewService(repo Repository, branches BranchDirectory, tokens *auth.Tokens) Service {
	return &service{
		repo:     repo,
		branches: branches,
		tokens:   tokens,
	}
}

func identityOf(u *User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role, BranchID: u.BranchID}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	role := req.Role
	if role == "" {
		role = auth.RoleCustomer
	}

	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, "", "", err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		return nil, "", "", err
	}

	pair, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("account registered", "user_id", user.ID, "role", user.Role)
	return user, pair.Access, pair.Refresh, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(identityOf(user))
	if err != nil {
		return nil, "", "", err
	}

	return user, pair.Access, pair.Refresh, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	newAccessToken, claims, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

// GetManager returns the account only when it holds the MANAGER role.
func (s *service) GetManager(ctx context.Context, managerID int) (*User, error) {
	user, err := s.repo.FindByID(ctx, managerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrManagerNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role != auth.RoleManager {
		return nil, ErrManagerNotFound
	}
	return user, nil
}

func (s *service) CreateStaff(ctx context.Context, managerID int, req CreateStaffRequest) (*User, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	if _, err := s.GetManager(ctx, managerID); err != nil {
		return nil, err
	}

	owner, err := s.branches.ManagerOfBranch(ctx, req.BranchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != managerID {
		return nil, ErrBranchNotOwned
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	staff, err := s.repo.Create(ctx, &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         auth.RoleStaff,
		BranchID:     &req.BranchID,
		ManagerID:    &managerID,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("staff created", "staff_id", staff.ID, "manager_id", managerID, "branch_id", req.BranchID)
	return staff, nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailExists
	}
	return nil
}
