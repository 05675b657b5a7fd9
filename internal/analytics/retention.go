package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleCleanup registers a retention sweep on c using a standard
// five-field cron spec.
func ScheduleCleanup(c *cron.Cron, spec string, s *Store, retention time.Duration, logger *slog.Logger) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := s.Cleanup(ctx, retention)
		if err != nil {
			logger.Error("visitor cleanup failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("visitor cleanup", "removed", n, "retention", retention)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule cleanup %q: %w", spec, err)
	}
	return id, nil
}
