package transaction

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/linhlinh38/Bookminton/internal/db"
)

const defaultLimit = 50

const transactionColumns = `id, amount, from_id, to_id, content, type, payment_method, payment_id, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO transactions (amount, from_id, to_id, content, type, payment_method, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns

	var created Transaction
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		t.Amount, t.FromID, t.ToID, t.Content, t.Type, t.PaymentMethod, t.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	return &created, nil
}

func (r *repository) ListByAccount(ctx context.Context, accountID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE from_id = $1 OR to_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	txs := []Transaction{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &txs, query, accountID, limit, offset); err != nil {
		return nil, err
	}

	return txs, nil
}
