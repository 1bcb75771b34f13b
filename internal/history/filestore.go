package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all conversation logs in memory and snapshots them to a
// single UTF-8 JSON file after every exchange. The on-disk format is a JSON
// object keyed by user ID with arrays of {type, text, timestamp} entries,
// non-ASCII characters stored unescaped.
//
// The store serializes its own writes with a mutex; coordination between
// multiple processes writing the same file is out of scope (last writer
// wins). Deployments needing that should use the SQLite backend.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	logs map[string][]Entry
}

// NewFileStore creates a file-backed history store writing to path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{
		path:   path,
		logger: logger.With("component", "history_file_store"),
		logs:   make(map[string][]Entry),
	}
}

// Load reads the snapshot file. A missing file starts an empty store; a
// corrupt file is logged and also starts an empty store. Load never fails
// startup.
func (s *FileStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.InfoContext(ctx, "No history snapshot found, starting empty", "path", s.path)
		} else {
			s.logger.ErrorContext(ctx, "Failed to read history snapshot, starting empty", "path", s.path, "error", err)
		}
		s.logs = make(map[string][]Entry)
		return nil
	}

	logs := make(map[string][]Entry)
	if err := json.Unmarshal(data, &logs); err != nil {
		s.logger.ErrorContext(ctx, "Failed to parse history snapshot, starting empty", "path", s.path, "error", err)
		s.logs = make(map[string][]Entry)
		return nil
	}

	s.logs = logs
	s.logger.InfoContext(ctx, "History snapshot loaded", "path", s.path, "users", len(logs))
	return nil
}

// Append adds an entry to the in-memory log for userID, creating the log if
// absent. Durability happens on the next Persist.
func (s *FileStore) Append(_ context.Context, userID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[userID] = append(s.logs[userID], entry)
	return nil
}

// Persist serializes the entire mapping and replaces the snapshot file.
// The write goes to a temporary file first and is moved into place with
// os.Rename, so readers never observe a partial snapshot.
func (s *FileStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked(ctx)
}

func (s *FileStore) persistLocked(ctx context.Context) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.logs); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "History snapshot persisted", "path", s.path, "users", len(s.logs))
	return nil
}

// Entries returns a copy of the conversation log for userID.
func (s *FileStore) Entries(_ context.Context, userID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[userID]
	if !ok {
		return nil, nil
	}
	out := make([]Entry, len(log))
	copy(out, log)
	return out, nil
}

// Maintain re-flushes the current snapshot. This recovers from a snapshot
// lost to an earlier Persist failure without waiting for the next exchange.
func (s *FileStore) Maintain(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistLocked(ctx); err != nil {
		return fmt.Errorf("history maintenance flush failed: %w", err)
	}
	s.logger.InfoContext(ctx, "History maintenance flush completed", "path", s.path)
	return nil
}
