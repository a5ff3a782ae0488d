package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

const MinSessionSecretLength = 64

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically; callers that override fields must call it again.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if len(c.Session.Secret) < MinSessionSecretLength {
		return fmt.Errorf("session.secret must be at least %d characters (got %d)", MinSessionSecretLength, len(c.Session.Secret))
	}
	if c.Session.Expiry <= 0 {
		return fmt.Errorf("session.expiry must be > 0 (got %s)", c.Session.Expiry)
	}
	if _, err := cron.ParseStandard(c.Session.CleanupSchedule); err != nil {
		return fmt.Errorf("session.cleanup_schedule: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}
