package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linhlinh38/Bookminton/internal/auth"
)

var userRowColumns = []string{"id", "name", "email", "password_hash", "role", "branch_id", "manager_id", "expired_date", "max_court", "created_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func TestCreateAndFindUser(t *testing.T) {
	repo, mock, closeDB := setupUserMock(t)
	defer closeDB()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role, branch_id, manager_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING " + userColumns)).
		WithArgs("Alice", "a@example.com", "hash", auth.RoleCustomer, nil, nil).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "Alice", "a@example.com", "hash", auth.RoleCustomer, nil, nil, nil, nil, now))

	u, err := repo.Create(ctx, &User{Name: "Alice", Email: "a@example.com", PasswordHash: "hash", Role: auth.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Nil(t, u.BranchID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "Alice", "a@example.com", "hash", auth.RoleCustomer, nil, nil, nil, nil, now))

	fu, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", fu.Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetManagerForUpdate(t *testing.T) {
	repo, mock, closeDB := setupUserMock(t)
	defer closeDB()

	expired := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id = $1 AND role = $2 FOR UPDATE")).
		WithArgs(2, auth.RoleManager).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(2, "Minh", "m@example.com", "hash", auth.RoleManager, nil, nil, expired, 4, time.Now()))

	u, err := repo.GetManagerForUpdate(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, u.ExpiredDate)
	assert.True(t, u.ExpiredDate.Equal(expired))
	assert.Equal(t, 4, *u.MaxCourt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateManagerPlan(t *testing.T) {
	repo, mock, closeDB := setupUserMock(t)
	defer closeDB()

	expired := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("UPDATE users SET expired_date = $1, max_court = $2 WHERE id = $3")

	mock.ExpectExec(query).WithArgs(expired, 10, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateManagerPlan(context.Background(), 2, expired, 10))

	mock.ExpectExec(query).WithArgs(expired, 10, 99).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateManagerPlan(context.Background(), 99, expired, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
