package domain

import "context"

// Repositories are bound to one store and, inside Update, to one transaction.
type Repositories struct {
	Categories CategoryRepository
	Records    RecordRepository
}

// Store is a user's isolated storage unit. View runs fn under shared read access.
// Update runs fn under exclusive write access inside a single transaction that is
// committed when fn returns nil and rolled back otherwise. The context handed to
// fn by Update is not cancelled when the caller's is.
type Store interface {
	View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Update(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// StoreProvider resolves the store of a user, creating it on first use.
type StoreProvider interface {
	Open(ctx context.Context, userID string) (Store, error)
}
