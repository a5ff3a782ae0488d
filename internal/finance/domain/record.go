package domain

import (
	"context"

	"github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type Record struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID string  `json:"category_id"`
	Timestamp  int64   `json:"timestamp"`
}

type NewRecord struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	CategoryID string  `json:"category_id"`
}

// Normalize trims the string fields and validates them.
func (r *NewRecord) Normalize() error {
	name, err := ValidateLength(r.Name, "Record name", MaxRecordNameLength)
	if err != nil {
		return err
	}
	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}
	categoryID, err := ValidateLength(r.CategoryID, "Category ID", MaxCategoryIDLength)
	if err != nil {
		return err
	}
	r.Name = name
	r.CategoryID = categoryID
	return nil
}

// RecordPatch holds the fields of a partial update. Nil fields keep their stored value.
type RecordPatch struct {
	Name       *string  `json:"name"`
	Amount     *float64 `json:"amount"`
	CategoryID *string  `json:"category_id"`
	Timestamp  *int64   `json:"timestamp"`
}

func (p *RecordPatch) IsEmpty() bool {
	return p.Name == nil && p.Amount == nil && p.CategoryID == nil && p.Timestamp == nil
}

func (p *RecordPatch) Normalize() error {
	if p.IsEmpty() {
		return errors.ErrEmptyRecordUpdate
	}
	if p.Name != nil {
		name, err := ValidateLength(*p.Name, "Record name", MaxRecordNameLength)
		if err != nil {
			return err
		}
		p.Name = &name
	}
	if p.Amount != nil {
		if err := ValidateAmount(*p.Amount); err != nil {
			return err
		}
	}
	if p.CategoryID != nil {
		categoryID, err := ValidateLength(*p.CategoryID, "Category ID", MaxCategoryIDLength)
		if err != nil {
			return err
		}
		p.CategoryID = &categoryID
	}
	return nil
}

// Apply merges the patch over r.
func (p *RecordPatch) Apply(r Record) Record {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.CategoryID != nil {
		r.CategoryID = *p.CategoryID
	}
	if p.Timestamp != nil {
		r.Timestamp = *p.Timestamp
	}
	return r
}

type RecordQuery struct {
	StartTime *int64
	EndTime   *int64
	Limit     *int
}

// RecordFilter is an inclusive timestamp window.
type RecordFilter struct {
	StartTime int64
	EndTime   int64
	Limit     int
}

type RecordList struct {
	Records    []Record `json:"records"`
	TotalCount int      `json:"total_count"`
}

type RecordRepository interface {
	Create(ctx context.Context, record Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter RecordFilter) ([]Record, error)
	Count(ctx context.Context, startTime, endTime int64) (int, error)
	Update(ctx context.Context, record Record) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
