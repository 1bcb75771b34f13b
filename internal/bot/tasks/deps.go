// Package tasks defines the scheduled background tasks the bot can run
// and the dependencies they need.
package tasks

import (
	"context"
	"log/slog"

	"github.com/yclai/tianqibot/internal/history"
)

// ScheduledTaskFunc is the signature for runnable scheduled tasks.
type ScheduledTaskFunc func(ctx context.Context) error

// TaskDeps holds the dependencies required by scheduled task functions.
type TaskDeps struct {
	Logger *slog.Logger
	Store  history.Store
}
