package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	// ListByAccount returns transactions the account sent or received, newest first.
	ListByAccount(ctx context.Context, accountID, limit, offset int) ([]Transaction, error)
}
