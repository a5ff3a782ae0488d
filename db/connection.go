package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"

	usersFile = "users.db"
)

const sqliteUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);`

const postgresUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      VARCHAR(50) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    BIGINT NOT NULL
);`

// DBService holds the identity store connection.
type DBService struct {
	DB      *sql.DB
	Dialect string
	logger  *slog.Logger
}

// NewDBService opens the identity store. With an empty connString it uses
// <dataPath>/users.db, otherwise it connects to PostgreSQL through pgx.
// The users table is created when missing.
func NewDBService(ctx context.Context, dataPath, connString string, logger *slog.Logger) (*DBService, error) {
	var (
		db      *sql.DB
		dialect string
		err     error
	)

	if connString == "" {
		dialect = DialectSQLite
		db, err = openSQLite(dataPath)
	} else {
		dialect = DialectPostgres
		db, err = openPostgres(connString)
	}
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	ddl := sqliteUsersTable
	if dialect == DialectPostgres {
		ddl = postgresUsersTable
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create users table: %w", err)
	}

	logger.Info("identity store connected", slog.String("dialect", dialect))
	return &DBService{DB: db, Dialect: dialect, logger: logger}, nil
}

func openSQLite(dataPath string) (*sql.DB, error) {
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}
	dsn := "file:" + filepath.Join(dataPath, usersFile) + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := sql.Open(DialectSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func openPostgres(connString string) (*sql.DB, error) {
	db, err := sql.Open(DialectPostgres, connString)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	err := s.DB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["dialect"] = s.Dialect
	return stats
}

// Close closes the database connection.
func (s *DBService) Close() error {
	s.logger.Info("closing identity store connection")
	return s.DB.Close()
}
