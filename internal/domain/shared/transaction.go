package shared

import "context"

// TransactionManager runs a function within a single atomic storage
// transaction. Repository calls made with the context passed to fn join that
// transaction; an error from fn rolls everything back.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
