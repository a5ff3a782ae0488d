package infrastructure

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"

	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

//go:embed schema.sql
var schemaSQL string

const sqliteDriverName = "sqlite3_budget"

// Connections of this driver expose casefold(text), Unicode case folding used
// for case-insensitive name comparison and search.
func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", casefold, true)
		},
	})
}

// A Caser keeps state, so each call gets its own.
func casefold(s string) string {
	return cases.Fold().String(s)
}

func sqliteDSN(path string) string {
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate"
}

// openSQLite opens a store file with a single connection; the user store's
// lock decides who may use it.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("could not open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to store %s: %w", path, err)
	}
	return db, nil
}

// ensureSchema applies the schema to a store that has none yet.
// Existing stores are opened as they are.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	var tables int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('categories', 'records')`,
	).Scan(&tables)
	if err != nil {
		return fmt.Errorf("could not inspect schema: %w", err)
	}
	if tables == 2 {
		return nil
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("could not apply schema: %w", err)
	}
	return nil
}

// DBTX is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return financeErrors.Storage("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			safeRollback(tx)
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = financeErrors.Storage("commit transaction", commitErr)
		}
	}()

	err = fn(ctx, tx)
	return err
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error("transaction rollback failed", slog.Any("error", err))
	}
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
