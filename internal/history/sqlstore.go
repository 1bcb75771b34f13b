package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// entryRow is the database representation of a conversation entry.
type entryRow struct {
	ID     uint   `db:"id"`
	UserID string `db:"user_id"`
	Entry
}

// SQLStore provides a Store implementation backed by sqlx over SQLite.
// Unlike the file store, every Append is durable on its own; Persist is a
// no-op kept for interface symmetry.
type SQLStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewSQLStore(db *sqlx.DB, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLStore{
		db:     db,
		logger: logger.With("component", "history_sql_store"),
	}
}

// Load verifies the database connection. The data itself already lives in
// the database, so there is nothing to hydrate.
func (s *SQLStore) Load(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Database ping failed during load", "error", err)
		return nil // never block startup on a history failure
	}
	s.logger.InfoContext(ctx, "History database ready")
	return nil
}

// Append inserts a new conversation entry for userID.
func (s *SQLStore) Append(ctx context.Context, userID string, entry Entry) error {
	if userID == "" {
		return fmt.Errorf("cannot append entry with empty user_id")
	}
	if entry.Text == "" && entry.Role == "" {
		return fmt.Errorf("cannot append empty entry")
	}

	query := `
        INSERT INTO conversations (user_id, role, text, timestamp)
        VALUES (?, ?, ?, ?);
    `
	if _, err := s.db.ExecContext(ctx, query, userID, entry.Role, entry.Text, entry.Timestamp); err != nil {
		s.logger.ErrorContext(ctx, "Error appending conversation entry", "user_id", userID, "error", err)
		return fmt.Errorf("failed to append entry for user %s: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Conversation entry appended", "user_id", userID, "role", entry.Role)
	return nil
}

// Persist is a no-op: Append writes through to the database.
func (s *SQLStore) Persist(_ context.Context) error {
	return nil
}

// Entries returns the conversation log for userID in append order.
func (s *SQLStore) Entries(ctx context.Context, userID string) ([]Entry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}

	var rows []entryRow
	query := `
        SELECT id, user_id, role, text, timestamp
        FROM conversations
        WHERE user_id = ?
        ORDER BY id ASC;
    `
	err := s.db.SelectContext(ctx, &rows, query, userID)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching entries", "user_id", userID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting conversation entries", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get entries for user %s: %w", userID, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.Entry)
	}
	return entries, nil
}

// Maintain executes a VACUUM command on the SQLite database.
func (s *SQLStore) Maintain(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
