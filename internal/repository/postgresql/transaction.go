package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/database"
)

type txKey struct{}

// WithTx stores tx in ctx so repositories called with that ctx join the transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
