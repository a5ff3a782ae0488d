package domain

import "context"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CategoryQuery struct {
	Search *string
	Limit  *int
	Offset *int
}

type CategoryFilter struct {
	Search string // empty means no filtering
	Limit  int
	Offset int
}

type CategoryList struct {
	Categories []Category `json:"categories"`
	TotalCount int        `json:"total_count"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// CategoryRepository works inside a single user's store.
// Name comparisons are case-insensitive.
type CategoryRepository interface {
	Create(ctx context.Context, category Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	Exists(ctx context.Context, id string) (bool, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, filter CategoryFilter) ([]Category, error)
	Count(ctx context.Context, search string) (int, error)
	Rename(ctx context.Context, id, name string) (bool, error)
	InUse(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
