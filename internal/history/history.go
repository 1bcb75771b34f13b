// Package history provides durable per-user conversation logs. Two backends
// implement the same Store interface: a JSON file snapshot (the default) and
// a SQLite database, selectable through configuration without touching
// dispatch logic.
package history

import (
	"context"
	"time"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	// RoleUser marks an entry containing a user's inbound message.
	RoleUser Role = "user"
	// RoleBot marks an entry containing the bot's reply.
	RoleBot Role = "bot"
)

// Entry is a single conversation entry. Entries are append-only and never
// mutated after being recorded. The JSON field names match the durable file
// format: {"type": ..., "text": ..., "timestamp": ...}.
type Entry struct {
	Role      Role      `json:"type"      db:"role"`
	Text      string    `json:"text"      db:"text"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// NewEntry creates an entry with the timestamp assigned at the moment of
// the append, per the conversation-log invariant.
func NewEntry(role Role, text string) Entry {
	return Entry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Store defines the interface for conversation history persistence.
// Every inbound message produces exactly one user entry followed by one bot
// entry before Persist is called; implementations must preserve entry order
// per user.
type Store interface {
	// Load hydrates the store from durable storage at startup. A missing or
	// unreadable snapshot initializes an empty store and is logged, never
	// returned as an error that would block startup.
	Load(ctx context.Context) error

	// Append adds an entry to the given user's log, creating it if absent.
	Append(ctx context.Context, userID string, entry Entry) error

	// Persist writes the current state to durable storage. For snapshot
	// backends the whole mapping is rewritten atomically; backends whose
	// Append is already durable may treat this as a no-op.
	Persist(ctx context.Context) error

	// Entries returns a copy of the conversation log for the given user.
	Entries(ctx context.Context, userID string) ([]Entry, error)

	// Maintain performs periodic backend maintenance (snapshot re-flush,
	// database VACUUM). Invoked by the scheduler, never by the request path.
	Maintain(ctx context.Context) error
}
