package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	database "github.com/sebuszqo/BudgetTracker/db"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByUsername(ctx context.Context, username string) (*User, error)
	getUserByID(ctx context.Context, id string) (*User, error)
}

type userRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewUserRepository builds queries with the placeholder format of dialect.
func NewUserRepository(db *sql.DB, dialect string) Repository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == database.DialectPostgres {
		placeholder = sq.Dollar
	}
	return &userRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query, args, err := r.builder.
		Insert("users").
		Columns("id", "username", "password_hash", "created_at").
		Values(user.ID, user.Username, user.PasswordHash, user.CreatedAt.Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("could not build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) getUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, sq.Eq{"username": username})
}

func (r *userRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *userRepository) getUser(ctx context.Context, where sq.Eq) (*User, error) {
	query, args, err := r.builder.
		Select("id", "username", "password_hash", "created_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build select: %w", err)
	}

	var (
		user      User
		createdAt int64
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	user.CreatedAt = unixTime(createdAt)
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
