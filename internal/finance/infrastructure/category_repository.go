package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type CategoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, category.ID, category.Name)
	if err != nil {
		return fmt.Errorf("could not insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("could not find category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not check category existence: %w", err)
	}
	return exists, nil
}

// NameTaken reports whether a category other than excludeID already uses name,
// ignoring letter case.
func (r *CategoryRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE casefold(name) = casefold(?) AND id <> ?)`,
		name, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("could not check category name: %w", err)
	}
	return taken, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	query := withSearch(builder.Select("id", "name").From("categories"), filter.Search).
		OrderBy("name ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, financeErrors.Internal("build category query", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, financeErrors.Internal("scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Count(ctx context.Context, search string) (int, error) {
	stmt, args, err := withSearch(builder.Select("COUNT(*)").From("categories"), search).ToSql()
	if err != nil {
		return 0, financeErrors.Internal("build category count", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("could not count categories: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return false, fmt.Errorf("could not update category: %w", err)
	}
	return rowsAffected(res)
}

func (r *CategoryRepository) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM records WHERE category_id = ?)`, id).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("could not check category usage: %w", err)
	}
	return used, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete category: %w", err)
	}
	return rowsAffected(res)
}

// withSearch adds a case-insensitive substring match on name.
// instr is used instead of LIKE so '%' and '_' in the term match literally.
func withSearch(query sq.SelectBuilder, search string) sq.SelectBuilder {
	if search == "" {
		return query
	}
	return query.Where("instr(casefold(name), casefold(?)) > 0", search)
}
