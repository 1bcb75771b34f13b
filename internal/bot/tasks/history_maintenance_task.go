package tasks

import (
	"context"
	"fmt"
)

// NewHistoryMaintenanceTask returns a task that runs periodic maintenance
// on the conversation history store. For the file backend this re-flushes
// the in-memory log to disk; for the database backend it reclaims space.
func NewHistoryMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	return func(ctx context.Context) error {
		log := deps.Logger.With("task", "history_maintenance")
		log.InfoContext(ctx, "Starting history maintenance")

		if err := deps.Store.Maintain(ctx); err != nil {
			log.ErrorContext(ctx, "History maintenance failed", "error", err)
			return fmt.Errorf("history maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "History maintenance completed")
		return nil
	}
}
