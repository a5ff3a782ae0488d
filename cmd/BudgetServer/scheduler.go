package main

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/sebuszqo/BudgetTracker/internal/auth"
)

// StartSessionCleanupScheduler sweeps expired sessions on schedule
// (a standard cron expression or a descriptor such as "@every 1h").
func StartSessionCleanupScheduler(schedule string, authService auth.Service, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed := authService.CleanupExpiredSessions()
		logger.Debug("expired sessions removed", slog.Int("count", removed))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
