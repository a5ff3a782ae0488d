package domain

import (
	"fmt"
	"strings"

	"github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

const (
	MaxCategoryNameLength = 100
	MaxRecordNameLength   = 255
	MaxCategoryIDLength   = 100
	MaxSearchTermLength   = 100

	DefaultCategoriesLimit = 100
	DefaultRecordsLimit    = 500
	MaxLimit               = 1000
	MaxOffset              = 1_000_000
)

// ValidateLength trims value and checks it is non-empty and at most maxLength bytes long.
// The trimmed value is returned so callers store exactly what was validated.
func ValidateLength(value, fieldName string, maxLength int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errors.NewValidationError(fieldName, fmt.Sprintf("%s cannot be empty", fieldName))
	}
	if len(trimmed) > maxLength {
		return "", errors.NewValidationError(fieldName, fmt.Sprintf("%s must be less than %d characters", fieldName, maxLength))
	}
	return trimmed, nil
}

// ValidateAmount rejects zero. Negative amounts are refunds or corrections.
func ValidateAmount(amount float64) error {
	if amount == 0 {
		return errors.NewValidationError("Record amount", "Record amount cannot be zero")
	}
	return nil
}

func ValidateLimit(limit *int, defaultLimit, maxLimit int) (int, error) {
	if limit == nil {
		return defaultLimit, nil
	}
	if *limit <= 0 {
		return 0, errors.NewValidationError("Limit", "Limit must be greater than 0")
	}
	if *limit > maxLimit {
		return 0, errors.NewValidationError("Limit", fmt.Sprintf("Limit cannot exceed %d", maxLimit))
	}
	return *limit, nil
}

func ValidateOffset(offset *int, maxOffset int) (int, error) {
	if offset == nil {
		return 0, nil
	}
	if *offset < 0 {
		return 0, errors.NewValidationError("Offset", "Offset cannot be negative")
	}
	if *offset > maxOffset {
		return 0, errors.NewValidationError("Offset", fmt.Sprintf("Offset cannot exceed %d", maxOffset))
	}
	return *offset, nil
}
