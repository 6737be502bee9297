package user

import "time"

type User struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	BranchID     *int       `db:"branch_id" json:"branch_id,omitempty"`
	ManagerID    *int       `db:"manager_id" json:"manager_id,omitempty"`
	ExpiredDate  *time.Time `db:"expired_date" json:"expired_date,omitempty"`
	MaxCourt     *int       `db:"max_court" json:"max_court,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// HasActivePackage reports whether the manager's package is still running at now.
func (u *User) HasActivePackage(now time.Time) bool {
	return u.ExpiredDate != nil && u.ExpiredDate.After(now)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=CUSTOMER MANAGER"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	BranchID int    `json:"branch_id" validate:"required,gt=0"`
}
