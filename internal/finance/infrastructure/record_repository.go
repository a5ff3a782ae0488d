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

var recordColumns = []string{"id", "name", "amount", "category_id", "timestamp"}

type RecordRepository struct {
	db DBTX
}

func NewRecordRepository(db DBTX) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, record domain.Record) error {
	stmt, args, err := builder.Insert("records").
		Columns(recordColumns...).
		Values(record.ID, record.Name, record.Amount, record.CategoryID, record.Timestamp).
		ToSql()
	if err != nil {
		return financeErrors.Internal("build record insert", err)
	}
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("could not insert record: %w", err)
	}
	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*domain.Record, error) {
	stmt, args, err := builder.Select(recordColumns...).From("records").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, financeErrors.Internal("build record query", err)
	}

	record, err := scanRecord(r.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("could not find record: %w", err)
	}
	return record, nil
}

// List returns the newest records inside the inclusive window. Records sharing a
// timestamp come back in reverse insertion order.
func (r *RecordRepository) List(ctx context.Context, filter domain.RecordFilter) ([]domain.Record, error) {
	stmt, args, err := builder.Select(recordColumns...).
		From("records").
		Where("timestamp BETWEEN ? AND ?", filter.StartTime, filter.EndTime).
		OrderBy("timestamp DESC", "rowid DESC").
		Limit(uint64(filter.Limit)).
		ToSql()
	if err != nil {
		return nil, financeErrors.Internal("build record query", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, financeErrors.Internal("scan record", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read records: %w", err)
	}
	return records, nil
}

func (r *RecordRepository) Count(ctx context.Context, startTime, endTime int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE timestamp BETWEEN ? AND ?`, startTime, endTime,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("could not count records: %w", err)
	}
	return count, nil
}

func (r *RecordRepository) Update(ctx context.Context, record domain.Record) (bool, error) {
	stmt, args, err := builder.Update("records").
		Set("name", record.Name).
		Set("amount", record.Amount).
		Set("category_id", record.CategoryID).
		Set("timestamp", record.Timestamp).
		Where(sq.Eq{"id": record.ID}).
		ToSql()
	if err != nil {
		return false, financeErrors.Internal("build record update", err)
	}

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("could not update record: %w", err)
	}
	return rowsAffected(res)
}

func (r *RecordRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete record: %w", err)
	}
	return rowsAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var record domain.Record
	if err := row.Scan(&record.ID, &record.Name, &record.Amount, &record.CategoryID, &record.Timestamp); err != nil {
		return nil, err
	}
	return &record, nil
}
