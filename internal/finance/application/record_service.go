package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type RecordService struct {
	stores domain.StoreProvider
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

func NewRecordService(stores domain.StoreProvider, logger *slog.Logger) *RecordService {
	return &RecordService{stores: stores, logger: logger, newID: uuid.NewString, now: time.Now}
}

func (s *RecordService) CreateRecord(ctx context.Context, userID string, input domain.NewRecord) (*domain.Record, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}

	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	record := domain.Record{
		ID:         s.newID(),
		Name:       input.Name,
		Amount:     input.Amount,
		CategoryID: input.CategoryID,
		Timestamp:  s.now().Unix(),
	}
	err = store.Update(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := requireCategory(ctx, repos, record.CategoryID); err != nil {
			return err
		}
		return repos.Records.Create(ctx, record)
	})
	if err != nil {
		return nil, s.fail(ctx, "create record", err)
	}
	return &record, nil
}

// GetRecords lists records in the inclusive window [start_time, end_time].
// A missing end_time means the time the query runs.
func (s *RecordService) GetRecords(ctx context.Context, userID string, query domain.RecordQuery) (*domain.RecordList, error) {
	limit, err := domain.ValidateLimit(query.Limit, domain.DefaultRecordsLimit, domain.MaxLimit)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := domain.RecordFilter{Limit: limit}
	if query.StartTime != nil {
		filter.StartTime = *query.StartTime
	}

	result := &domain.RecordList{}
	err = store.View(ctx, func(ctx context.Context, repos domain.Repositories) error {
		filter.EndTime = s.now().Unix()
		if query.EndTime != nil {
			filter.EndTime = *query.EndTime
		}

		total, err := repos.Records.Count(ctx, filter.StartTime, filter.EndTime)
		if err != nil {
			return err
		}
		records, err := repos.Records.List(ctx, filter)
		if err != nil {
			return err
		}
		result.TotalCount = total
		result.Records = records
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "list records", err)
	}
	return result, nil
}

func (s *RecordService) GetRecord(ctx context.Context, userID, id string) (*domain.Record, error) {
	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	var record *domain.Record
	err = store.View(ctx, func(ctx context.Context, repos domain.Repositories) error {
		found, err := repos.Records.FindByID(ctx, id)
		record = found
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "get record", err)
	}
	return record, nil
}

// UpdateRecord merges patch over the stored record and persists the result.
func (s *RecordService) UpdateRecord(ctx context.Context, userID, id string, patch domain.RecordPatch) (*domain.Record, error) {
	if err := patch.Normalize(); err != nil {
		return nil, err
	}

	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updated domain.Record
	err = store.Update(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if patch.CategoryID != nil {
			if err := requireCategory(ctx, repos, *patch.CategoryID); err != nil {
				return err
			}
		}

		existing, err := repos.Records.FindByID(ctx, id)
		if err != nil {
			return err
		}

		updated = patch.Apply(*existing)
		ok, err := repos.Records.Update(ctx, updated)
		if err != nil {
			return err
		}
		if !ok {
			return financeErrors.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update record", err)
	}
	return &updated, nil
}

func (s *RecordService) DeleteRecord(ctx context.Context, userID, id string) error {
	store, err := s.stores.Open(ctx, userID)
	if err != nil {
		return err
	}

	err = store.Update(ctx, func(ctx context.Context, repos domain.Repositories) error {
		deleted, err := repos.Records.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return financeErrors.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "delete record", err)
	}
	return nil
}

func (s *RecordService) fail(ctx context.Context, op string, err error) error {
	return classify(ctx, s.logger, op, err)
}

func requireCategory(ctx context.Context, repos domain.Repositories, categoryID string) error {
	exists, err := repos.Categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return financeErrors.ErrCategoryDoesntExist
	}
	return nil
}
