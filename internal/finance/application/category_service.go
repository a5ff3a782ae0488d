package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type CategoryService struct {
	stores domain.StoreProvider
	logger *slog.Logger
	newID  func() string
}

func NewCategoryService(stores domain.StoreProvider, logger *slog.Logger) *CategoryService {
	return &CategoryService{stores: stores, logger: logger, newID: uuid.NewString}
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	name, err := domain.ValidateLength(name, "Category name", domain.MaxCategoryNameLength)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	category := domain.Category{ID: s.newID(), Name: name}
	err = store.Update(ctx, func(ctx context.Context, repos domain.Repositories) error {
		taken, err := repos.Categories.NameTaken(ctx, name, "")
		if err != nil {
			return err
		}
		if taken {
			return financeErrors.ErrCategoryNameTaken
		}
		return repos.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, s.fail(ctx, "create category", err)
	}
	return &category, nil
}

func (s *CategoryService) GetCategories(ctx context.Context, userID string, query domain.CategoryQuery) (*domain.CategoryList, error) {
	limit, err := domain.ValidateLimit(query.Limit, domain.DefaultCategoriesLimit, domain.MaxLimit)
	if err != nil {
		return nil, err
	}
	offset, err := domain.ValidateOffset(query.Offset, domain.MaxOffset)
	if err != nil {
		return nil, err
	}

	var search string
	if query.Search != nil && strings.TrimSpace(*query.Search) != "" {
		search, err = domain.ValidateLength(*query.Search, "Search term", domain.MaxSearchTermLength)
		if err != nil {
			return nil, err
		}
	}

	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &domain.CategoryList{Limit: limit, Offset: offset}
	err = store.View(ctx, func(ctx context.Context, repos domain.Repositories) error {
		total, err := repos.Categories.Count(ctx, search)
		if err != nil {
			return err
		}
		categories, err := repos.Categories.List(ctx, domain.CategoryFilter{Search: search, Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		result.TotalCount = total
		result.Categories = categories
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "list categories", err)
	}
	return result, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	var category *domain.Category
	err = store.View(ctx, func(ctx context.Context, repos domain.Repositories) error {
		found, err := repos.Categories.FindByID(ctx, id)
		category = found
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "get category", err)
	}
	return category, nil
}

// UpdateCategory renames a category. Keeping the current name, in any case, is allowed.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id, name string) (*domain.Category, error) {
	name, err := domain.ValidateLength(name, "Category name", domain.MaxCategoryNameLength)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = store.Update(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Categories.FindByID(ctx, id); err != nil {
			return err
		}
		taken, err := repos.Categories.NameTaken(ctx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return financeErrors.ErrCategoryNameTaken
		}
		renamed, err := repos.Categories.Rename(ctx, id, name)
		if err != nil {
			return err
		}
		if !renamed {
			return financeErrors.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update category", err)
	}
	return &domain.Category{ID: id, Name: name}, nil
}

// DeleteCategory refuses to remove a category that records still reference.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id string) error {
	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return err
	}

	err = store.Update(ctx, func(ctx context.Context, repos domain.Repositories) error {
		exists, err := repos.Categories.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrCategoryNotFound
		}
		used, err := repos.Categories.InUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return financeErrors.ErrCategoryInUse
		}
		deleted, err := repos.Categories.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return financeErrors.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "delete category", err)
	}
	return nil
}

func (s *CategoryService) fail(ctx context.Context, op string, err error) error {
	return classify(ctx, s.logger, op, err)
}
