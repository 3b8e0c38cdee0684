package ports

import "context"

// TxManager runs fn in one storage transaction. Repositories read the
// transaction from ctx.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
