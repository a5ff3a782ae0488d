package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"golang.org/x/sync/singleflight"
)

// UserStore is one user's SQLite file behind a reader/writer lock.
type UserStore struct {
	mu sync.RWMutex
	db *sql.DB
}

func (s *UserStore) View(ctx context.Context, fn func(context.Context, domain.Repositories) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, newRepositories(s.db))
}

// Update holds the writer lock for the whole of fn. A cancelled request does
// not abort the transaction once it has started.
func (s *UserStore) Update(ctx context.Context, fn func(context.Context, domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return withTx(context.WithoutCancel(ctx), s.db, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *UserStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func newRepositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Categories: NewCategoryRepository(db),
		Records:    NewRecordRepository(db),
	}
}

// Provisioner maps user ids to their store files under root and keeps every
// opened store for the lifetime of the process.
type Provisioner struct {
	root   string
	logger *slog.Logger

	mu     sync.RWMutex
	stores map[string]*UserStore
	group  singleflight.Group
}

func NewProvisioner(root string, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		root:   root,
		logger: logger,
		stores: make(map[string]*UserStore),
	}
}

// StorePath returns the file holding the store of userID.
func (p *Provisioner) StorePath(userID string) string {
	return filepath.Join(p.root, fmt.Sprintf("user_%s.db", userID))
}

func (p *Provisioner) Open(ctx context.Context, userID string) (domain.Store, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, financeErrors.Storage("resolve store", fmt.Errorf("invalid user id %q", userID))
	}

	if store, ok := p.cached(userID); ok {
		return store, nil
	}

	v, err, _ := p.group.Do(userID, func() (any, error) {
		if store, ok := p.cached(userID); ok {
			return store, nil
		}

		store, err := p.openStore(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.stores[userID] = store
		p.mu.Unlock()
		return store, nil
	})
	if err != nil {
		p.logger.Error("could not open user store", slog.String("user_id", userID), slog.Any("error", err))
		return nil, financeErrors.Storage("open store", err)
	}
	return v.(*UserStore), nil
}

func (p *Provisioner) cached(userID string) (*UserStore, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	store, ok := p.stores[userID]
	return store, ok
}

func (p *Provisioner) openStore(ctx context.Context, userID string) (*UserStore, error) {
	if err := os.MkdirAll(p.root, 0o750); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	path := p.StorePath(userID)
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if created {
		p.logger.Info("user store created", slog.String("user_id", userID))
	}
	return &UserStore{db: db}, nil
}

// Close releases every open store.
func (p *Provisioner) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for userID, store := range p.stores {
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store %s: %w", userID, err))
		}
		delete(p.stores, userID)
	}
	return errors.Join(errs...)
}
