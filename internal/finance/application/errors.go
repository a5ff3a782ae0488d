package application

import (
	"context"
	"errors"
	"log/slog"

	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

// classify passes client errors through and turns anything else into a storage
// error, logging the cause.
func classify(ctx context.Context, logger *slog.Logger, op string, err error) error {
	if financeErrors.IsClientError(err) {
		return err
	}
	logger.ErrorContext(ctx, "finance storage failure", slog.String("op", op), slog.Any("error", err))
	if errors.Is(err, financeErrors.ErrStorageUnavailable) || errors.Is(err, financeErrors.ErrInternal) {
		return err
	}
	return financeErrors.Storage(op, err)
}
